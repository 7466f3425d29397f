package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/fintrack/internal/models"
)

type TransactionStat struct {
	Month int                    `json:"month"` // 1-12, month of createdAt
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
	Count int                    `json:"count"`
}

type BudgetStat struct {
	Month       int             `json:"month"` // 1-12, month of createdAt
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

// TransactionStats groups transactions created on or after since by
// (month of creation, type).
func TransactionStats(txs []models.Transaction, since time.Time) []TransactionStat {
	type key struct {
		month int
		typ   models.TransactionType
	}
	groups := make(map[key]*TransactionStat)
	for _, tx := range txs {
		if tx.CreatedAt.Before(since) {
			continue
		}
		k := key{month: int(tx.CreatedAt.Month()), typ: tx.Type}
		st, ok := groups[k]
		if !ok {
			st = &TransactionStat{Month: k.month, Type: k.typ, Total: decimal.Zero}
			groups[k] = st
		}
		st.Total = st.Total.Add(amount(tx.Amount))
		st.Count++
	}

	out := make([]TransactionStat, 0, len(groups))
	for _, st := range groups {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// BudgetStats sums limits and running totals of budgets created on or after
// since, grouped by month of creation.
func BudgetStats(budgets []models.Budget, since time.Time) []BudgetStat {
	groups := make(map[int]*BudgetStat)
	for _, b := range budgets {
		if b.CreatedAt.Before(since) {
			continue
		}
		m := int(b.CreatedAt.Month())
		st, ok := groups[m]
		if !ok {
			st = &BudgetStat{Month: m, TotalBudget: decimal.Zero, TotalSpent: decimal.Zero}
			groups[m] = st
		}
		st.TotalBudget = st.TotalBudget.Add(amount(b.MonthlyLimit))
		st.TotalSpent = st.TotalSpent.Add(amount(b.CurrentSpent))
	}

	out := make([]BudgetStat, 0, len(groups))
	for _, st := range groups {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
