package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/money"
	"github.com/GregMSThompson/fintrack/pkg/helpers"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type budgetBSStore interface {
	Create(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q dto.BudgetQuery) ([]models.Budget, error)
}

type transactionRangeStore interface {
	Query(ctx context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type budgetService struct {
	store        budgetBSStore
	transactions transactionRangeStore
	categories   categoryLookup
	format       money.Formatter
	loc          *time.Location
}

func NewBudgetService(store budgetBSStore, transactions transactionRangeStore, categories categoryLookup, format money.Formatter, loc *time.Location) *budgetService {
	if loc == nil {
		loc = time.UTC
	}
	return &budgetService{
		store:        store,
		transactions: transactions,
		categories:   categories,
		format:       format,
		loc:          loc,
	}
}

func (s *budgetService) List(ctx context.Context, q dto.BudgetQuery) ([]models.Budget, error) {
	return s.store.List(ctx, q)
}

func (s *budgetService) Get(ctx context.Context, id string) (*models.Budget, error) {
	return s.store.Get(ctx, id)
}

func (s *budgetService) Create(ctx context.Context, p models.Principal, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if !p.IsFinanceAdmin() {
		return nil, errs.NewForbiddenError("only finance admins can manage budgets")
	}
	if req.CategoryID == "" {
		return nil, errs.NewValidationError("categoryId is required")
	}
	if req.MonthlyLimit == nil {
		return nil, errs.NewValidationError("monthlyLimit is required")
	}
	if req.Year == nil || req.Month == nil {
		return nil, errs.NewValidationError("year and month are required")
	}

	b := &models.Budget{
		BudgetID:     uuid.NewString(),
		CategoryID:   req.CategoryID,
		MonthlyLimit: *req.MonthlyLimit,
		Year:         *req.Year,
		Month:        *req.Month,
		Alerts:       models.BudgetAlerts{Enabled: true, Threshold: models.DefaultAlertThreshold},
	}
	applyAlerts(&b.Alerts, req.Alerts)
	if err := validateBudget(b); err != nil {
		return nil, err
	}

	category, err := s.expenseCategory(ctx, b.CategoryID)
	if err != nil {
		return nil, err
	}
	b.CategoryName = category.Name

	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("budget created", "budget_id", b.BudgetID, "category_id", b.CategoryID, "year", b.Year, "month", b.Month)
	return b, nil
}

func (s *budgetService) Update(ctx context.Context, p models.Principal, id string, req dto.UpdateBudgetRequest) (*models.Budget, error) {
	if !p.IsFinanceAdmin() {
		return nil, errs.NewForbiddenError("only finance admins can manage budgets")
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != b.CategoryID {
		category, err := s.expenseCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		b.CategoryID = category.CategoryID
		b.CategoryName = category.Name
	}
	b.MonthlyLimit = helpers.ValueOr(req.MonthlyLimit, b.MonthlyLimit)
	b.Year = helpers.ValueOr(req.Year, b.Year)
	b.Month = helpers.ValueOr(req.Month, b.Month)
	applyAlerts(&b.Alerts, req.Alerts)
	if err := validateBudget(b); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, b); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("budget updated", "budget_id", b.BudgetID)
	return b, nil
}

func (s *budgetService) Delete(ctx context.Context, p models.Principal, id string) error {
	if !p.IsFinanceAdmin() {
		return errs.NewForbiddenError("only finance admins can manage budgets")
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("budget deleted", "budget_id", id)
	return nil
}

// Report loads the month's budgets and expense transactions concurrently and
// classifies each budget.
func (s *budgetService) Report(ctx context.Context, year, month int) (dto.BudgetReport, error) {
	if month < 0 || month > 11 {
		return dto.BudgetReport{}, errs.NewValidationError("month must be between 0 and 11")
	}

	var (
		budgets []models.Budget
		txs     []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.List(gctx, dto.BudgetQuery{Year: &year, Month: &month})
		return err
	})
	g.Go(func() error {
		start, end := aggregate.MonthWindow(month, year, s.loc)
		expense := models.TransactionExpense
		return s.transactions.Query(gctx, dto.TransactionQuery{
			Type:     &expense,
			DateFrom: &start,
			DateTo:   &end,
		}, func(tx *models.Transaction) error {
			txs = append(txs, *tx)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return dto.BudgetReport{}, err
	}

	rows := aggregate.BudgetReport(budgets, txs, year, month, s.loc)
	report := dto.BudgetReport{Year: year, Month: month, Items: make([]dto.BudgetReportItem, 0, len(rows))}
	for _, row := range rows {
		limit := decimal.NewFromFloat(row.MonthlyLimit)
		report.Items = append(report.Items, dto.BudgetReportItem{
			Budget:             row.Budget,
			TotalSpent:         row.TotalSpent.InexactFloat64(),
			PercentageUsed:     row.PercentageUsed.Round(2).InexactFloat64(),
			Status:             string(row.Status),
			FormattedLimit:     s.format.FormatDecimal(limit),
			FormattedSpent:     s.format.FormatDecimal(row.TotalSpent),
			FormattedRemaining: s.format.FormatDecimal(limit.Sub(row.TotalSpent)),
		})
	}
	return report, nil
}

// Stats summarises budgets created during the last year by month.
func (s *budgetService) Stats(ctx context.Context) ([]aggregate.BudgetStat, error) {
	since := time.Now().AddDate(-1, 0, 0)
	budgets, err := s.store.List(ctx, dto.BudgetQuery{CreatedFrom: &since})
	if err != nil {
		return nil, err
	}
	return aggregate.BudgetStats(budgets, since), nil
}

// expenseCategory resolves the category a budget tracks. Only expenses move
// currentSpent, so income and inactive categories are refused.
func (s *budgetService) expenseCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, errs.NewValidationErrorf("category %q is inactive", category.Name)
	}
	if category.Type != models.TransactionExpense {
		return nil, errs.NewValidationErrorf("category %q is not an expense category", category.Name)
	}
	return category, nil
}

func applyAlerts(alerts *models.BudgetAlerts, req *dto.BudgetAlertsRequest) {
	if req == nil {
		return
	}
	alerts.Enabled = helpers.ValueOr(req.Enabled, alerts.Enabled)
	alerts.Threshold = helpers.ValueOr(req.Threshold, alerts.Threshold)
}

func validateBudget(b *models.Budget) error {
	if err := validateAmount(b.MonthlyLimit); err != nil {
		return errs.NewValidationError("monthlyLimit must be a finite, non-negative number")
	}
	if b.Month < 0 || b.Month > 11 {
		return errs.NewValidationError("month must be between 0 and 11")
	}
	if b.Year < 1 {
		return errs.NewValidationError("year must be positive")
	}
	if b.Alerts.Threshold < 0 || b.Alerts.Threshold > 100 {
		return errs.NewValidationError("alert threshold must be between 0 and 100")
	}
	return nil
}
