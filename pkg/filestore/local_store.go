// Package filestore keeps uploaded document bytes on the local disk.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("filestore: file not found")

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes data under a fresh random name that keeps the original extension.
func (s *LocalStore) Save(data []byte, originalName string) (string, error) {
	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	if err := os.WriteFile(s.path(storedName), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", storedName, err)
	}
	return storedName, nil
}

func (s *LocalStore) Read(storedName string) ([]byte, error) {
	data, err := os.ReadFile(s.path(storedName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", storedName, err)
	}
	return data, nil
}

// Delete removes the file; a missing file is not an error.
func (s *LocalStore) Delete(storedName string) error {
	err := os.Remove(s.path(storedName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", storedName, err)
	}
	return nil
}

func (s *LocalStore) path(storedName string) string {
	// Base keeps lookups inside dir.
	return filepath.Join(s.dir, filepath.Base(storedName))
}
