package dto

import "github.com/GregMSThompson/fintrack/internal/models"

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateUserRequest struct {
	FirstName *string      `json:"firstName,omitempty"`
	LastName  *string      `json:"lastName,omitempty"`
	Role      *models.Role `json:"role,omitempty"`
}
