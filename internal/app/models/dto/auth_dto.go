package dto

import "github.com/yigit/campusportal/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	UniversityID string `json:"universityId" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
