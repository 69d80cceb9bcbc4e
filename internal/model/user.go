package model

import (
	"fmt"
	"strings"
	"time"
)

// User is the authenticated identity as served by GET /auth/profile/.
// A read-only projection of it is embedded in Comment.Author.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            *string   `json:"bio,omitempty"`
	Location       *string   `json:"location,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	IsChefVerified bool      `json:"is_chef_verified"`
	RecipesCount   int       `json:"recipes_count"`
	DateJoined     time.Time `json:"date_joined"`
}

// RegisterRequest is the request body for POST /auth/register/. The backend
// re-checks Password2; the client rejects a mismatch before any network call.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Validate enforces the local registration preconditions.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required: %w", ErrValidation)
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("password is required: %w", ErrValidation)
	}
	if r.Password != r.Password2 {
		return fmt.Errorf("passwords do not match: %w", ErrValidation)
	}
	return nil
}

// LoginRequest is the request body for POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields for POST /auth/profile/.
// Nil fields are left untouched by the backend.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Location       *string `json:"location,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}
