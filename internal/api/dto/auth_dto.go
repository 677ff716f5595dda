package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	UserID    int64           `json:"user_id"`
	Role      domain.UserRole `json:"role"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domain.UserRole `json:"role"`
}

// UserResponse is the public user shape.
type UserResponse struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
	Active   bool            `json:"active"`
}

// FromUser maps a user without credential fields.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
