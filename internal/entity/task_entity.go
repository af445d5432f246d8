package entity

import "time"

type Task struct {
	Id          uint
	Title       string
	Description string
	Completed   bool
	UserId      uint
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
