package models

import "time"

const DefaultAlertThreshold = 80.0

type Budget struct {
	BudgetID     string       `firestore:"budgetId" json:"id"`
	CategoryID   string       `firestore:"categoryId" json:"categoryId"`
	CategoryName string       `firestore:"categoryName" json:"categoryName"`
	MonthlyLimit float64      `firestore:"monthlyLimit" json:"monthlyLimit"`
	CurrentSpent float64      `firestore:"currentSpent" json:"currentSpent"` // running total, see services.transactionService.Create
	Year         int          `firestore:"year" json:"year"`
	Month        int          `firestore:"month" json:"month"` // 0-11
	Alerts       BudgetAlerts `firestore:"alerts" json:"alerts"`
	CreatedAt    time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `firestore:"updatedAt" json:"updatedAt"`
}

type BudgetAlerts struct {
	Enabled   bool    `firestore:"enabled" json:"enabled"`
	Threshold float64 `firestore:"threshold" json:"threshold"` // percent, 0-100
}

// BudgetKey identifies the single budget allowed per category per calendar month.
type BudgetKey struct {
	CategoryID string
	Year       int
	Month      int // 0-11
}

func (b *Budget) Key() BudgetKey {
	return BudgetKey{CategoryID: b.CategoryID, Year: b.Year, Month: b.Month}
}

// KeyFor returns the budget key a transaction dated at date is attributed to,
// with year and month taken in loc.
func KeyFor(categoryID string, date time.Time, loc *time.Location) BudgetKey {
	if loc == nil {
		loc = time.UTC
	}
	d := date.In(loc)
	return BudgetKey{CategoryID: categoryID, Year: d.Year(), Month: int(d.Month()) - 1}
}
