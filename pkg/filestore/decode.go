package filestore

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var ErrUndecodable = errors.New("filestore: content is not text")

// DecodeText returns data as UTF-8. Invalid UTF-8 is read as Windows-1251,
// which covers legacy Cyrillic files. Data with NUL bytes is treated as binary.
func DecodeText(data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", ErrUndecodable
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return "", ErrUndecodable
	}
	return string(decoded), nil
}
