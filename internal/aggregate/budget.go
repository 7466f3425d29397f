package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/fintrack/internal/models"
)

type BudgetStatus string

const (
	StatusUnder   BudgetStatus = "under"
	StatusWarning BudgetStatus = "warning"
	StatusOver    BudgetStatus = "over"
)

var hundred = decimal.NewFromInt(100)

// rank orders statuses so callers can tell whether a change is an escalation.
func (s BudgetStatus) rank() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusOver:
		return 2
	default:
		return 0
	}
}

// Escalated reports whether moving from prev to s crosses into a worse state.
func (s BudgetStatus) Escalated(prev BudgetStatus) bool {
	return s.rank() > prev.rank()
}

type BudgetReportRow struct {
	models.Budget
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	PercentageUsed decimal.Decimal `json:"percentageUsed"`
	Status         BudgetStatus    `json:"status"`
}

// PercentageUsed is spent/limit*100, or 0 when the limit is not positive.
func PercentageUsed(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(hundred).Div(limit)
}

// Classify applies the status precedence: under, then warning at or above the
// alert threshold, then over at or above 100. Later rules win, so 100% with a
// threshold of 80 is over.
func Classify(percentage, threshold decimal.Decimal) BudgetStatus {
	status := StatusUnder
	if percentage.GreaterThanOrEqual(threshold) {
		status = StatusWarning
	}
	if percentage.GreaterThanOrEqual(hundred) {
		status = StatusOver
	}
	return status
}

// ClassifySpent classifies a budget given an arbitrary spent figure.
func ClassifySpent(b models.Budget, spent decimal.Decimal) BudgetStatus {
	pct := PercentageUsed(spent, amount(b.MonthlyLimit))
	return Classify(pct, amount(b.Alerts.Threshold))
}

// BudgetReport produces one row per budget of the zero-based month of year.
//
// TotalSpent counts expense transactions of the budget's category dated inside
// the month regardless of approval status. This differs from MonthlyData and
// CategoryTotals, which only count approved transactions.
func BudgetReport(budgets []models.Budget, txs []models.Transaction, year, month int, loc *time.Location) []BudgetReportRow {
	start, end := MonthWindow(month, year, loc)

	spent := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != models.TransactionExpense || !within(tx.Date, start, end) {
			continue
		}
		spent[tx.CategoryID] = spent[tx.CategoryID].Add(amount(tx.Amount))
	}

	rows := make([]BudgetReportRow, 0, len(budgets))
	for _, b := range budgets {
		if b.Year != year || b.Month != month {
			continue
		}
		total := spent[b.CategoryID]
		pct := PercentageUsed(total, amount(b.MonthlyLimit))
		rows = append(rows, BudgetReportRow{
			Budget:         b,
			TotalSpent:     total,
			PercentageUsed: pct,
			Status:         Classify(pct, amount(b.Alerts.Threshold)),
		})
	}
	return rows
}
