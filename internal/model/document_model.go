package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uint      `gorm:"not null;index"`
	OriginalName string    `gorm:"type:varchar(255);not null"`
	StoredName   string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	ContentType  string    `gorm:"type:varchar(100);not null"`
	Size         int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
