package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an API account allowed to write articles and manage crawl jobs.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
