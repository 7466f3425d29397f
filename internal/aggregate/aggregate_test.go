package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/fintrack/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func marchTransactions() []models.Transaction {
	return []models.Transaction{
		{TransactionID: "t1", Type: models.TransactionIncome, Amount: 1000, Status: models.StatusApproved, Category: "Salary", CategoryID: "C0", Date: day(2024, time.March, 10)},
		{TransactionID: "t2", Type: models.TransactionExpense, Amount: 400, Status: models.StatusApproved, Category: "Food", CategoryID: "C1", Date: day(2024, time.March, 15)},
		{TransactionID: "t3", Type: models.TransactionExpense, Amount: 9999, Status: models.StatusPending, Category: "Food", CategoryID: "C1", Date: day(2024, time.March, 20)},
	}
}

func TestMonthlyDataExcludesPendingFromTotals(t *testing.T) {
	got := MonthlyData(marchTransactions(), 2, 2024, nil)

	assertDecimal(t, "1000", got.Income)
	assertDecimal(t, "400", got.Expenses)
	assertDecimal(t, "600", got.Balance)
	assert.Len(t, got.Transactions, 3, "date filter keeps every status")
}

func TestMonthlyDataWindowIsInclusive(t *testing.T) {
	txs := []models.Transaction{
		{TransactionID: "first", Type: models.TransactionIncome, Amount: 1, Status: models.StatusApproved, Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{TransactionID: "last", Type: models.TransactionIncome, Amount: 2, Status: models.StatusApproved, Date: time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC)},
		{TransactionID: "before", Type: models.TransactionIncome, Amount: 4, Status: models.StatusApproved, Date: time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)},
		{TransactionID: "after", Type: models.TransactionIncome, Amount: 8, Status: models.StatusApproved, Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := MonthlyData(txs, 1, 2024, time.UTC)

	assertDecimal(t, "3", got.Income)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "first", got.Transactions[0].TransactionID)
	assert.Equal(t, "last", got.Transactions[1].TransactionID)
}

func TestMonthlyDataUsesLocation(t *testing.T) {
	accraLate := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	txs := []models.Transaction{
		{Type: models.TransactionExpense, Amount: 5, Status: models.StatusApproved, Date: accraLate},
	}

	assertDecimal(t, "5", MonthlyData(txs, 2, 2024, time.UTC).Expenses)
	assertDecimal(t, "0", MonthlyData(txs, 2, 2024, tokyo).Expenses)
	assertDecimal(t, "5", MonthlyData(txs, 3, 2024, tokyo).Expenses)
}

func TestMonthlyDataNegativeBalance(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TransactionIncome, Amount: 10.1, Status: models.StatusApproved, Date: day(2024, time.May, 1)},
		{Type: models.TransactionExpense, Amount: 20.2, Status: models.StatusApproved, Date: day(2024, time.May, 2)},
		{Type: models.TransactionExpense, Amount: 0.1, Status: models.StatusApproved, Date: day(2024, time.May, 3)},
	}

	got := MonthlyData(txs, 4, 2024, nil)

	assertDecimal(t, "-10.2", got.Balance)
	assert.True(t, got.Balance.Equal(got.Income.Sub(got.Expenses)))
}

func TestMonthlyDataEmpty(t *testing.T) {
	got := MonthlyData(nil, 0, 2024, nil)

	assertDecimal(t, "0", got.Income)
	assertDecimal(t, "0", got.Expenses)
	assertDecimal(t, "0", got.Balance)
	assert.NotNil(t, got.Transactions)
	assert.Empty(t, got.Transactions)
}

func TestMonthlyDataIsIdempotentAndDoesNotMutate(t *testing.T) {
	txs := marchTransactions()
	before := append([]models.Transaction(nil), txs...)

	first := MonthlyData(txs, 2, 2024, nil)
	second := MonthlyData(txs, 2, 2024, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, before, txs)
}

func TestCategoryTotals(t *testing.T) {
	txs := append(marchTransactions(),
		models.Transaction{Type: models.TransactionIncome, Amount: 50, Status: models.StatusApproved, Category: "Food", Date: day(2023, time.January, 1)},
		models.Transaction{Type: models.TransactionExpense, Amount: 70, Status: models.StatusRejected, Category: "Travel", Date: day(2024, time.March, 1)},
	)

	got := CategoryTotals(txs)

	require.Len(t, got, 2)
	assert.NotContains(t, got, "Travel", "categories without approved transactions are absent")
	assertDecimal(t, "1000", got["Salary"].Income)
	assertDecimal(t, "0", got["Salary"].Expense)
	assertDecimal(t, "50", got["Food"].Income)
	assertDecimal(t, "400", got["Food"].Expense)
}

func TestCategoryTotalsIncomeSumMatchesApprovedIncome(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TransactionIncome, Amount: 0.1, Status: models.StatusApproved, Category: "A"},
		{Type: models.TransactionIncome, Amount: 0.2, Status: models.StatusApproved, Category: "B"},
		{Type: models.TransactionIncome, Amount: 0.3, Status: models.StatusApproved, Category: "A"},
		{Type: models.TransactionIncome, Amount: 99, Status: models.StatusPending, Category: "C"},
	}

	sum := decimal.Zero
	for _, ct := range CategoryTotals(txs) {
		sum = sum.Add(ct.Income)
	}

	assertDecimal(t, "0.6", sum)
}

func TestCategoryTotalsIdempotent(t *testing.T) {
	txs := marchTransactions()
	assert.Equal(t, CategoryTotals(txs), CategoryTotals(txs))
	assert.Empty(t, CategoryTotals(nil))
}

func TestBudgetReportScenario(t *testing.T) {
	budgets := []models.Budget{
		{BudgetID: "b1", CategoryID: "C1", MonthlyLimit: 500, Year: 2024, Month: 2, Alerts: models.BudgetAlerts{Enabled: true, Threshold: 80}},
	}
	txs := []models.Transaction{
		{Type: models.TransactionExpense, Amount: 450, Status: models.StatusPending, CategoryID: "C1", Date: day(2024, time.March, 5)},
		{Type: models.TransactionExpense, Amount: 30, Status: models.StatusApproved, CategoryID: "C2", Date: day(2024, time.March, 5)},
		{Type: models.TransactionIncome, Amount: 300, Status: models.StatusApproved, CategoryID: "C1", Date: day(2024, time.March, 5)},
		{Type: models.TransactionExpense, Amount: 300, Status: models.StatusApproved, CategoryID: "C1", Date: day(2024, time.April, 1)},
	}

	rows := BudgetReport(budgets, txs, 2024, 2, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].BudgetID)
	assertDecimal(t, "450", rows[0].TotalSpent)
	assertDecimal(t, "90", rows[0].PercentageUsed)
	assert.Equal(t, StatusWarning, rows[0].Status)
}

func TestBudgetReportCountsEveryStatus(t *testing.T) {
	budgets := []models.Budget{{CategoryID: "C1", MonthlyLimit: 100, Year: 2024, Month: 0, Alerts: models.BudgetAlerts{Threshold: 80}}}
	txs := []models.Transaction{
		{Type: models.TransactionExpense, Amount: 40, Status: models.StatusRejected, CategoryID: "C1", Date: day(2024, time.January, 2)},
		{Type: models.TransactionExpense, Amount: 60, Status: models.StatusPending, CategoryID: "C1", Date: day(2024, time.January, 3)},
	}

	rows := BudgetReport(budgets, txs, 2024, 0, nil)

	require.Len(t, rows, 1)
	assertDecimal(t, "100", rows[0].TotalSpent)
	assert.Equal(t, StatusOver, rows[0].Status)
}

func TestBudgetReportZeroLimit(t *testing.T) {
	budgets := []models.Budget{{CategoryID: "C1", MonthlyLimit: 0, Year: 2024, Month: 6, Alerts: models.BudgetAlerts{Threshold: 80}}}
	txs := []models.Transaction{
		{Type: models.TransactionExpense, Amount: 10, CategoryID: "C1", Date: day(2024, time.July, 4)},
	}

	rows := BudgetReport(budgets, txs, 2024, 6, nil)

	require.Len(t, rows, 1)
	assertDecimal(t, "0", rows[0].PercentageUsed)
	assert.Equal(t, StatusUnder, rows[0].Status)
}

func TestBudgetReportSkipsOtherMonthsAndKeepsOrder(t *testing.T) {
	budgets := []models.Budget{
		{BudgetID: "z", CategoryID: "C2", MonthlyLimit: 10, Year: 2024, Month: 2},
		{BudgetID: "other", CategoryID: "C1", MonthlyLimit: 10, Year: 2024, Month: 3},
		{BudgetID: "a", CategoryID: "C1", MonthlyLimit: 10, Year: 2024, Month: 2},
	}

	rows := BudgetReport(budgets, nil, 2024, 2, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, "z", rows[0].BudgetID)
	assert.Equal(t, "a", rows[1].BudgetID)
	assertDecimal(t, "0", rows[0].TotalSpent)
}

func TestClassifyPrecedence(t *testing.T) {
	threshold := dec("80")
	cases := []struct {
		pct  string
		want BudgetStatus
	}{
		{"0", StatusUnder},
		{"79.999", StatusUnder},
		{"80", StatusWarning},
		{"99.99", StatusWarning},
		{"100", StatusOver},
		{"250", StatusOver},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Classify(dec(tc.pct), threshold), "pct=%s", tc.pct)
	}
}

func TestClassifyThresholdAboveHundred(t *testing.T) {
	assert.Equal(t, StatusUnder, Classify(dec("50"), dec("100")))
	assert.Equal(t, StatusOver, Classify(dec("100"), dec("100")))
	assert.Equal(t, StatusWarning, Classify(dec("0"), dec("0")))
}

func TestPercentageUsed(t *testing.T) {
	assertDecimal(t, "79.999", PercentageUsed(dec("79999"), dec("100000")))
	assertDecimal(t, "0", PercentageUsed(dec("10"), decimal.Zero))
	assertDecimal(t, "0", PercentageUsed(decimal.Zero, decimal.Zero))
}

func TestEscalated(t *testing.T) {
	assert.True(t, StatusWarning.Escalated(StatusUnder))
	assert.True(t, StatusOver.Escalated(StatusWarning))
	assert.False(t, StatusWarning.Escalated(StatusWarning))
	assert.False(t, StatusUnder.Escalated(StatusOver))
}

func TestTransactionStats(t *testing.T) {
	since := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Type: models.TransactionExpense, Amount: 5, CreatedAt: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionExpense, Amount: 7, CreatedAt: time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionIncome, Amount: 100, CreatedAt: time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionIncome, Amount: 3, CreatedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionIncome, Amount: 1000, CreatedAt: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
	}

	got := TransactionStats(txs, since)

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Month)
	assert.Equal(t, models.TransactionExpense, got[1].Type)
	assert.Equal(t, 2, got[1].Count)
	assertDecimal(t, "12", got[1].Total)
	assert.Equal(t, models.TransactionIncome, got[2].Type)
}

func TestBudgetStats(t *testing.T) {
	since := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	budgets := []models.Budget{
		{MonthlyLimit: 100, CurrentSpent: 20, CreatedAt: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{MonthlyLimit: 50, CurrentSpent: 60, CreatedAt: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC)},
		{MonthlyLimit: 10, CurrentSpent: 1, CreatedAt: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)},
		{MonthlyLimit: 999, CreatedAt: time.Date(2023, time.April, 3, 0, 0, 0, 0, time.UTC)},
	}

	got := BudgetStats(budgets, since)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, 4, got[1].Month)
	assertDecimal(t, "150", got[1].TotalBudget)
	assertDecimal(t, "80", got[1].TotalSpent)
}

func TestCountByCategory(t *testing.T) {
	got := CountByCategory(marchTransactions())
	assert.Equal(t, map[string]int{"C0": 1, "C1": 2}, got)
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(11, 2024, nil)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC), end)
}
