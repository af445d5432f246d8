// Package history keeps the last exchanges per (user, document) pair.
package history

import (
	"context"
	"fmt"
	"time"
)

// MaxEntries bounds every conversation; older exchanges are dropped first.
const MaxEntries = 50

type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Strategy  string    `json:"agent_type"`
}

type Key struct {
	UserId     uint
	DocumentId string
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.UserId, k.DocumentId)
}

// Store is safe for concurrent use. Append truncates synchronously.
type Store interface {
	Append(ctx context.Context, key Key, exchange Exchange) error
	// List returns exchanges oldest first; an unknown key yields an empty slice.
	List(ctx context.Context, key Key) ([]Exchange, error)
	// Clear reports whether anything was removed.
	Clear(ctx context.Context, key Key) (bool, error)
}
