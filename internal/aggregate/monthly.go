package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/fintrack/internal/models"
)

type MonthlySummary struct {
	Income       decimal.Decimal      `json:"income"`
	Expenses     decimal.Decimal      `json:"expenses"`
	Balance      decimal.Decimal      `json:"balance"`
	Transactions []models.Transaction `json:"transactions"`
}

// MonthlyData buckets txs into the zero-based month of year.
//
// Transactions holds every transaction dated inside the month whatever its
// status; Income and Expenses only count approved ones. Balance is not floored.
func MonthlyData(txs []models.Transaction, month, year int, loc *time.Location) MonthlySummary {
	start, end := MonthWindow(month, year, loc)

	summary := MonthlySummary{
		Income:       decimal.Zero,
		Expenses:     decimal.Zero,
		Transactions: make([]models.Transaction, 0),
	}
	for _, tx := range txs {
		if !within(tx.Date, start, end) {
			continue
		}
		summary.Transactions = append(summary.Transactions, tx)
		if tx.Status != models.StatusApproved {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			summary.Income = summary.Income.Add(amount(tx.Amount))
		case models.TransactionExpense:
			summary.Expenses = summary.Expenses.Add(amount(tx.Amount))
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expenses)
	return summary
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
