package dto

import (
	"time"

	"github.com/civicfix/report-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm payload.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PromoteRequest payload.
type PromoteRequest struct {
	Role domain.Role `json:"role"`
}

// UserResponse is the wire form of a user, without credential material.
type UserResponse struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Email                string      `json:"email"`
	Mobile               string      `json:"mobile,omitempty"`
	Address              string      `json:"address,omitempty"`
	Role                 domain.Role `json:"role"`
	WorkerRequestPending bool        `json:"worker_request_pending"`
	CreatedAt            time.Time   `json:"created_at"`
}
