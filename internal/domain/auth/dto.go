package auth

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest is the POST /auth/signup payload. Everyone starts as a
// regular user; the admin role is only ever granted by another admin.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
	AgeRange string `json:"age_range" validate:"required,age_range"`
}

// LoginRequest is the POST /auth/login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the POST /auth/refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the authenticated user's own view
type UserResponse struct {
	UID       uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	AgeRange  string    `json:"age_range"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokensResponse carries the token pair
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse is returned by signup, login and refresh
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}
