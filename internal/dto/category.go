package dto

import "github.com/GregMSThompson/fintrack/internal/models"

type CreateCategoryRequest struct {
	Name        string                 `json:"name"`
	Type        models.TransactionType `json:"type"`
	Icon        string                 `json:"icon,omitempty"`
	Color       string                 `json:"color,omitempty"`
	Description string                 `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type CategoryWithCount struct {
	models.Category
	TransactionCount int `json:"transactionCount"`
}

// DeleteCategoryResult reports whether the category was removed or only deactivated.
type DeleteCategoryResult struct {
	ID          string `json:"id"`
	Deactivated bool   `json:"deactivated"`
}
