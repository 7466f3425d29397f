package models

import (
	"time"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

type Transaction struct {
	TransactionID string            `firestore:"transactionId" json:"id"`
	Type          TransactionType   `firestore:"type" json:"type"`
	Amount        float64           `firestore:"amount" json:"amount"`
	Category      string            `firestore:"category" json:"category"` // denormalised Category.Name
	CategoryID    string            `firestore:"categoryId" json:"categoryId"`
	Description   string            `firestore:"description" json:"description"`
	Date          time.Time         `firestore:"date" json:"date"`
	Status        TransactionStatus `firestore:"status" json:"status"`
	CreatedBy     string            `firestore:"createdBy" json:"createdBy"`
	ApprovedBy    string            `firestore:"approvedBy" json:"approvedBy,omitempty"`
	ReceiptURL    string            `firestore:"receiptUrl" json:"receiptUrl,omitempty"`
	Recurring     *Recurring        `firestore:"recurring,omitempty" json:"recurring,omitempty"`
	Tags          []string          `firestore:"tags" json:"tags,omitempty"`
	Notes         string            `firestore:"notes" json:"notes,omitempty"` // KMS ciphertext at rest
	CreatedAt     time.Time         `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedAt" json:"updatedAt"`
}

type Recurring struct {
	Frequency Frequency  `firestore:"frequency" json:"frequency"`
	EndDate   *time.Time `firestore:"endDate,omitempty" json:"endDate,omitempty"`
	NextDate  *time.Time `firestore:"nextDate,omitempty" json:"nextDate,omitempty"`
}
