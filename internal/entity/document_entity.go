package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file owned by exactly one user. Its bytes live in the
// file store under StoredName; only metadata is kept in the database.
type Document struct {
	Id           uuid.UUID
	UserId       uint
	OriginalName string
	StoredName   string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}
