package dto

import (
	"time"

	"github.com/spec-kit/learning-portal/internal/domain"
)

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest payload for PUT /api/users/me. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest payload for POST /api/users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SetRoleRequest payload for PATCH /api/users/:id/role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetStatusRequest payload for PATCH /api/users/:id/status.
type SetStatusRequest struct {
	Active *bool `json:"active"`
}

// AuthResponse describes an issued session.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account. It never carries the password hash.
type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	DepartmentID *string   `json:"department_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// NewUserListResponse maps a page of users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// NewAuthResponse maps a session.
func NewAuthResponse(s domain.Session) AuthResponse {
	return AuthResponse{Token: s.Token, TokenType: s.TokenType, ExpiresAt: s.ExpiresAt}
}
