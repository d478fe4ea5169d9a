package models

import (
	"encoding/json"
	"time"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type User struct {
	ID             int             `json:"id"`
	Email          string          `json:"email"`
	HashedPassword []byte          `json:"-"`
	GoogleToken    json.RawMessage `json:"-"` // serialized oauth2.Token, empty when not connected
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GoogleConnected reports whether the user has granted Analytics access.
func (u *User) GoogleConnected() bool {
	return len(u.GoogleToken) > 0
}
