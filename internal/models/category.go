package models

import "time"

type Category struct {
	CategoryID  string          `firestore:"categoryId" json:"id"`
	Name        string          `firestore:"name" json:"name"`
	Type        TransactionType `firestore:"type" json:"type"`
	Icon        string          `firestore:"icon" json:"icon"`
	Color       string          `firestore:"color" json:"color"`
	Description string          `firestore:"description" json:"description"`
	IsActive    bool            `firestore:"isActive" json:"isActive"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
