package dto

import "github.com/GregMSThompson/fintrack/internal/models"

type MonthlySummary struct {
	Year              int                  `json:"year"`
	Month             int                  `json:"month"`
	Income            float64              `json:"income"`
	Expenses          float64              `json:"expenses"`
	Balance           float64              `json:"balance"`
	FormattedIncome   string               `json:"formattedIncome"`
	FormattedExpenses string               `json:"formattedExpenses"`
	FormattedBalance  string               `json:"formattedBalance"`
	Transactions      []models.Transaction `json:"transactions"`
}

type CategoryTotal struct {
	Category         string  `json:"category"`
	Income           float64 `json:"income"`
	Expense          float64 `json:"expense"`
	FormattedIncome  string  `json:"formattedIncome"`
	FormattedExpense string  `json:"formattedExpense"`
}
