package dto

import "github.com/skillkhoj/backend/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8,max=72"`
	Role     models.RoleType `json:"role" binding:"required,oneof=Student Recruiter Admin"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message   string       `json:"message" example:"Login Successful"`
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
	ExpiresIn int64        `json:"expiresIn" example:"10800"`
	User      UserResponse `json:"user"`
}

// NewUserResponse projects a user for auth responses.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
