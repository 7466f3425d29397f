package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/fintrack/internal/models"
)

type CategoryTotal struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotals sums approved transactions of all time by category label.
// A category appears in the result only if at least one approved transaction
// carries its label.
func CategoryTotals(txs []models.Transaction) map[string]CategoryTotal {
	totals := make(map[string]CategoryTotal)
	for _, tx := range txs {
		if tx.Status != models.StatusApproved {
			continue
		}
		t, ok := totals[tx.Category]
		if !ok {
			t = CategoryTotal{Income: decimal.Zero, Expense: decimal.Zero}
		}
		switch tx.Type {
		case models.TransactionIncome:
			t.Income = t.Income.Add(amount(tx.Amount))
		case models.TransactionExpense:
			t.Expense = t.Expense.Add(amount(tx.Amount))
		default:
			continue
		}
		totals[tx.Category] = t
	}
	return totals
}

// CountByCategory counts transactions of any status per category id.
func CountByCategory(txs []models.Transaction) map[string]int {
	counts := make(map[string]int)
	for _, tx := range txs {
		counts[tx.CategoryID]++
	}
	return counts
}
