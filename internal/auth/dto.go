package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResult carries the signed session token for the cookie plus the user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *users.UserDTO
}

// SessionInfo is the payload of GET /api/auth/session.
type SessionInfo struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}
