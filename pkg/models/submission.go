package models

import "time"

// Submission is one stored form post.
type Submission struct {
	ID        string    `json:"id"`
	Form      string    `json:"form"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Page      string    `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
