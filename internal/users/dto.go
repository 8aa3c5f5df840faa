package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	"github.com/angelmondragon/showroom-backend/pkg/types"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	ProfilePicture *string    `json:"profilePicture"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// CreateUserDTO holds what the repo needs to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// UpdateAccountInput is the PUT /api/user/account body. Omitted fields are left alone.
type UpdateAccountInput struct {
	Name           *string                `json:"name" validate:"omitempty,min=2"`
	Email          *string                `json:"email" validate:"omitempty,email"`
	Password       *string                `json:"password" validate:"omitempty,min=6"`
	ProfilePicture types.Nullable[string] `json:"profilePicture"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role.String(),
		ProfilePicture: u.ProfilePicture,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
	}
}
