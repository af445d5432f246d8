package dto

import "time"

type UserDTO struct {
	Id       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type UserProfileResponse struct {
	Id        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
