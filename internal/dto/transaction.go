package dto

import (
	"time"

	"github.com/GregMSThompson/fintrack/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type TransactionQuery struct {
	Type       *models.TransactionType
	Status     *models.TransactionStatus
	CategoryID *string
	CreatedBy  *string
	DateFrom   *time.Time
	DateTo     *time.Time
	// CreatedFrom keeps transactions created on or after it.
	CreatedFrom *time.Time
	Sort        []SortField
	Page        int
	Limit       int
}

type SortField struct {
	Field string // date, amount, createdAt
	Desc  bool
}

type RecurringRequest struct {
	Frequency models.Frequency `json:"frequency"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	NextDate  *time.Time       `json:"nextDate,omitempty"`
}

type CreateTransactionRequest struct {
	Type        models.TransactionType `json:"type"`
	Amount      *float64               `json:"amount"`
	CategoryID  string                 `json:"categoryId"`
	Description string                 `json:"description"`
	Date        *time.Time             `json:"date"`
	ReceiptURL  string                 `json:"receiptUrl,omitempty"`
	Recurring   *RecurringRequest      `json:"recurring,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
}

// UpdateTransactionRequest carries a partial update; nil fields are left alone.
type UpdateTransactionRequest struct {
	Amount      *float64          `json:"amount,omitempty"`
	CategoryID  *string           `json:"categoryId,omitempty"`
	Description *string           `json:"description,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	ReceiptURL  *string           `json:"receiptUrl,omitempty"`
	Recurring   *RecurringRequest `json:"recurring,omitempty"`
	Tags        *[]string         `json:"tags,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

type TransactionList struct {
	Transactions []models.Transaction
	Total        int
	Page         int
	Limit        int
}
