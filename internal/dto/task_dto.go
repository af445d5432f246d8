package dto

import "time"

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description"`
}

// UpdateTaskRequest leaves fields untouched when they are omitted.
type UpdateTaskRequest struct {
	Id          uint    `json:"-"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type TaskResponse struct {
	Id          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	UserId      uint       `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// SeedTaskMessage travels on the seeding topic.
type SeedTaskMessage struct {
	UserId      uint   `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
