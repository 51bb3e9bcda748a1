package dto

import "github.com/yigit/studentportal/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login. Token fields are only set
// when server-side sessions are enabled.
type LoginResponse struct {
	Success   bool            `json:"success" example:"true"`
	Message   string          `json:"message" example:"Login successful"`
	User      *models.Student `json:"user"`
	Token     string          `json:"token,omitempty"`
	TokenType string          `json:"tokenType,omitempty" example:"Bearer"`
	ExpiresIn int64           `json:"expiresIn,omitempty"`
}

// LoginResult is what the auth service hands back to the controller
type LoginResult struct {
	Student   *models.Student
	Token     string
	ExpiresIn int64
}

// UserResponse wraps the current student for GET /me
type UserResponse struct {
	Success bool            `json:"success"`
	User    *models.Student `json:"user"`
}

// MessageResponse is a bare success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
