package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// SignupRequest is the body of POST /api/auth/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,excludes=@"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login. Username may also hold
// the account's email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresIn int64   `json:"expires_in"`
	User      UserDTO `json:"user"`
}

// MeResponse is returned by GET /api/auth/me
type MeResponse struct {
	User UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToPublicUserDTO omits the email, for users other than the caller
func ToPublicUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
