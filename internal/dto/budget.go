package dto

import (
	"time"

	"github.com/GregMSThompson/fintrack/internal/models"
)

type BudgetAlertsRequest struct {
	Enabled   *bool    `json:"enabled,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type CreateBudgetRequest struct {
	CategoryID   string               `json:"categoryId"`
	MonthlyLimit *float64             `json:"monthlyLimit"`
	Year         *int                 `json:"year"`
	Month        *int                 `json:"month"`
	Alerts       *BudgetAlertsRequest `json:"alerts,omitempty"`
}

type UpdateBudgetRequest struct {
	CategoryID   *string              `json:"categoryId,omitempty"`
	MonthlyLimit *float64             `json:"monthlyLimit,omitempty"`
	Year         *int                 `json:"year,omitempty"`
	Month        *int                 `json:"month,omitempty"`
	Alerts       *BudgetAlertsRequest `json:"alerts,omitempty"`
}

type BudgetQuery struct {
	Year        *int
	Month       *int
	CategoryID  *string
	CreatedFrom *time.Time
}

type BudgetReportItem struct {
	models.Budget
	TotalSpent         float64 `json:"totalSpent"`
	PercentageUsed     float64 `json:"percentageUsed"`
	Status             string  `json:"status"`
	FormattedLimit     string  `json:"formattedLimit"`
	FormattedSpent     string  `json:"formattedSpent"`
	FormattedRemaining string  `json:"formattedRemaining"`
}

type BudgetReport struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Items []BudgetReportItem `json:"items"`
}
