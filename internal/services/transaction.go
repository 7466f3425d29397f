package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/events"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/money"
	"github.com/GregMSThompson/fintrack/pkg/helpers"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type transactionTSStore interface {
	Create(ctx context.Context, tx *models.Transaction, loc *time.Location) (*models.Budget, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
	Decide(ctx context.Context, id string, to models.TransactionStatus, by string) (*models.Transaction, error)
	Page(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, int, error)
	Query(ctx context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type categoryLookup interface {
	Get(ctx context.Context, id string) (*models.Category, error)
}

type noteSealer interface {
	Seal(ctx context.Context, plaintext string) (string, error)
	Open(ctx context.Context, sealed string) (string, error)
}

var sortableFields = map[string]bool{"date": true, "amount": true, "createdAt": true}

type transactionService struct {
	store      transactionTSStore
	categories categoryLookup
	sealer     noteSealer
	events     events.Publisher
	format     money.Formatter
	loc        *time.Location
}

func NewTransactionService(store transactionTSStore, categories categoryLookup, sealer noteSealer, publisher events.Publisher, format money.Formatter, loc *time.Location) *transactionService {
	if loc == nil {
		loc = time.UTC
	}
	return &transactionService{
		store:      store,
		categories: categories,
		sealer:     sealer,
		events:     publisher,
		format:     format,
		loc:        loc,
	}
}

func (s *transactionService) List(ctx context.Context, q dto.TransactionQuery) (dto.TransactionList, error) {
	if q.Page < 1 {
		q.Page = dto.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = dto.DefaultLimit
	}
	if q.Limit > dto.MaxLimit {
		q.Limit = dto.MaxLimit
	}
	if len(q.Sort) == 0 {
		q.Sort = []dto.SortField{{Field: "createdAt", Desc: true}}
	}
	for _, f := range q.Sort {
		if !sortableFields[f.Field] {
			return dto.TransactionList{}, errs.NewValidationErrorf("cannot sort by %q", f.Field)
		}
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return dto.TransactionList{}, errs.NewValidationError("dateTo is before dateFrom")
	}

	txs, total, err := s.store.Page(ctx, q)
	if err != nil {
		return dto.TransactionList{}, err
	}
	if err := s.openNotes(ctx, txs); err != nil {
		return dto.TransactionList{}, err
	}
	return dto.TransactionList{Transactions: txs, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *transactionService) Get(ctx context.Context, p models.Principal, id string) (*models.Transaction, error) {
	tx, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if tx.Notes, err = s.sealer.Open(ctx, tx.Notes); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) Create(ctx context.Context, p models.Principal, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, req.CategoryID, req.Type)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		TransactionID: uuid.NewString(),
		Type:          req.Type,
		Amount:        *req.Amount,
		Category:      category.Name,
		CategoryID:    category.CategoryID,
		Description:   strings.TrimSpace(req.Description),
		Date:          *req.Date,
		Status:        models.StatusPending,
		CreatedBy:     p.UID,
		ReceiptURL:    req.ReceiptURL,
		Recurring:     recurringFrom(req.Recurring),
		Tags:          req.Tags,
	}
	plainNotes := req.Notes
	if tx.Notes, err = s.sealer.Seal(ctx, req.Notes); err != nil {
		return nil, err
	}

	budget, err := s.store.Create(ctx, tx, s.loc)
	if err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}
	tx.Notes = plainNotes

	log.Info("transaction created", "transaction_id", tx.TransactionID, "type", tx.Type, "category_id", tx.CategoryID)
	events.Emit(ctx, s.events, events.TransactionCreated, transactionPayload(tx, p.UID))

	if budget != nil {
		s.checkBudgetAlert(ctx, budget, tx.Amount)
	}
	return tx, nil
}

// checkBudgetAlert publishes an alert when adding amount moved the budget's
// running total into a worse status.
func (s *transactionService) checkBudgetAlert(ctx context.Context, b *models.Budget, amount float64) {
	if !b.Alerts.Enabled {
		return
	}
	after := decimal.NewFromFloat(b.CurrentSpent)
	before := after.Sub(decimal.NewFromFloat(amount))

	prev := aggregate.ClassifySpent(*b, before)
	now := aggregate.ClassifySpent(*b, after)
	if !now.Escalated(prev) {
		return
	}

	pct := aggregate.PercentageUsed(after, decimal.NewFromFloat(b.MonthlyLimit))
	logger.FromContext(ctx).Warn("budget threshold crossed",
		"budget_id", b.BudgetID,
		"category_id", b.CategoryID,
		"status", now,
		"percentage_used", pct.StringFixed(2))

	events.Emit(ctx, s.events, events.BudgetAlert, events.BudgetAlertPayload{
		BudgetID:       b.BudgetID,
		CategoryID:     b.CategoryID,
		CategoryName:   b.CategoryName,
		Year:           b.Year,
		Month:          b.Month,
		MonthlyLimit:   b.MonthlyLimit,
		CurrentSpent:   b.CurrentSpent,
		PercentageUsed: pct.Round(2).InexactFloat64(),
		Status:         string(now),
		Message: b.CategoryName + " budget is " + string(now) + ": " +
			s.format.Format(b.CurrentSpent) + " of " + s.format.Format(b.MonthlyLimit),
	})
}

func (s *transactionService) Update(ctx context.Context, p models.Principal, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		tx.Amount = *req.Amount
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return nil, errs.NewValidationError("description is required")
		}
		tx.Description = d
	}
	if req.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *req.CategoryID, tx.Type)
		if err != nil {
			return nil, err
		}
		tx.CategoryID = category.CategoryID
		tx.Category = category.Name
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}
	tx.ReceiptURL = helpers.ValueOr(req.ReceiptURL, tx.ReceiptURL)
	tx.Tags = helpers.ValueOr(req.Tags, tx.Tags)
	if req.Recurring != nil {
		if !req.Recurring.Frequency.Valid() {
			return nil, errs.NewValidationErrorf("invalid recurring frequency %q", req.Recurring.Frequency)
		}
		tx.Recurring = recurringFrom(req.Recurring)
	}

	plainNotes, err := s.sealer.Open(ctx, tx.Notes)
	if err != nil {
		return nil, err
	}
	if req.Notes != nil {
		plainNotes = *req.Notes
		if tx.Notes, err = s.sealer.Seal(ctx, plainNotes); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, tx); err != nil {
		return nil, err
	}
	tx.Notes = plainNotes

	logger.FromContext(ctx).Info("transaction updated", "transaction_id", tx.TransactionID)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, p models.Principal, id string) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

func (s *transactionService) Approve(ctx context.Context, p models.Principal, id string) (*models.Transaction, error) {
	return s.decide(ctx, p, id, models.StatusApproved, events.TransactionApproved)
}

func (s *transactionService) Reject(ctx context.Context, p models.Principal, id string) (*models.Transaction, error) {
	return s.decide(ctx, p, id, models.StatusRejected, events.TransactionRejected)
}

func (s *transactionService) decide(ctx context.Context, p models.Principal, id string, to models.TransactionStatus, name events.Name) (*models.Transaction, error) {
	if !p.IsFinanceAdmin() {
		return nil, errs.NewForbiddenError("only finance admins can approve or reject transactions")
	}
	tx, err := s.store.Decide(ctx, id, to, p.UID)
	if err != nil {
		return nil, err
	}
	if tx.Notes, err = s.sealer.Open(ctx, tx.Notes); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction status changed", "transaction_id", id, "status", to)
	events.Emit(ctx, s.events, name, transactionPayload(tx, p.UID))
	return tx, nil
}

func (s *transactionService) MonthlySummary(ctx context.Context, month, year int) (dto.MonthlySummary, error) {
	if month < 0 || month > 11 {
		return dto.MonthlySummary{}, errs.NewValidationError("month must be between 0 and 11")
	}
	if year < 1 {
		return dto.MonthlySummary{}, errs.NewValidationError("year must be positive")
	}

	start, end := aggregate.MonthWindow(month, year, s.loc)
	var txs []models.Transaction
	err := s.store.Query(ctx, dto.TransactionQuery{
		DateFrom: &start,
		DateTo:   &end,
		Sort:     []dto.SortField{{Field: "date", Desc: true}},
	}, func(tx *models.Transaction) error {
		txs = append(txs, *tx)
		return nil
	})
	if err != nil {
		return dto.MonthlySummary{}, err
	}

	summary := aggregate.MonthlyData(txs, month, year, s.loc)
	for i := range summary.Transactions {
		summary.Transactions[i].Notes = ""
	}
	return dto.MonthlySummary{
		Year:              year,
		Month:             month,
		Income:            summary.Income.InexactFloat64(),
		Expenses:          summary.Expenses.InexactFloat64(),
		Balance:           summary.Balance.InexactFloat64(),
		FormattedIncome:   s.format.FormatDecimal(summary.Income),
		FormattedExpenses: s.format.FormatDecimal(summary.Expenses),
		FormattedBalance:  s.format.FormatDecimal(summary.Balance),
		Transactions:      summary.Transactions,
	}, nil
}

func (s *transactionService) CategoryTotals(ctx context.Context) ([]dto.CategoryTotal, error) {
	approved := models.StatusApproved
	var txs []models.Transaction
	err := s.store.Query(ctx, dto.TransactionQuery{Status: &approved}, func(tx *models.Transaction) error {
		txs = append(txs, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	totals := aggregate.CategoryTotals(txs)
	out := make([]dto.CategoryTotal, 0, len(totals))
	for name, t := range totals {
		out = append(out, dto.CategoryTotal{
			Category:         name,
			Income:           t.Income.InexactFloat64(),
			Expense:          t.Expense.InexactFloat64(),
			FormattedIncome:  s.format.FormatDecimal(t.Income),
			FormattedExpense: s.format.FormatDecimal(t.Expense),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Stats summarises transactions created during the last year by month and type.
func (s *transactionService) Stats(ctx context.Context) ([]aggregate.TransactionStat, error) {
	since := time.Now().AddDate(-1, 0, 0)
	var txs []models.Transaction
	err := s.store.Query(ctx, dto.TransactionQuery{CreatedFrom: &since}, func(tx *models.Transaction) error {
		txs = append(txs, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aggregate.TransactionStats(txs, since), nil
}

func (s *transactionService) owned(ctx context.Context, p models.Principal, id string) (*models.Transaction, error) {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(tx.CreatedBy) {
		return nil, errs.NewForbiddenError("not allowed to access this transaction")
	}
	return tx, nil
}

func (s *transactionService) resolveCategory(ctx context.Context, id string, typ models.TransactionType) (*models.Category, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, errs.NewValidationErrorf("category %q is inactive", category.Name)
	}
	if category.Type != typ {
		return nil, errs.NewValidationErrorf("category %q is for %s transactions", category.Name, category.Type)
	}
	return category, nil
}

func (s *transactionService) openNotes(ctx context.Context, txs []models.Transaction) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range txs {
		if txs[i].Notes == "" {
			continue
		}
		i := i
		g.Go(func() error {
			plain, err := s.sealer.Open(gctx, txs[i].Notes)
			if err != nil {
				return err
			}
			txs[i].Notes = plain
			return nil
		})
	}
	return g.Wait()
}

func validateCreate(req dto.CreateTransactionRequest) error {
	if !req.Type.Valid() {
		return errs.NewValidationErrorf("invalid transaction type %q", req.Type)
	}
	if req.Amount == nil {
		return errs.NewValidationError("amount is required")
	}
	if err := validateAmount(*req.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(req.Description) == "" {
		return errs.NewValidationError("description is required")
	}
	if req.Date == nil || req.Date.IsZero() {
		return errs.NewValidationError("date is required")
	}
	if req.CategoryID == "" {
		return errs.NewValidationError("categoryId is required")
	}
	if req.Recurring != nil && !req.Recurring.Frequency.Valid() {
		return errs.NewValidationErrorf("invalid recurring frequency %q", req.Recurring.Frequency)
	}
	return nil
}

func validateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.NewValidationError("amount must be a finite number")
	}
	if v < 0 {
		return errs.NewValidationError("amount cannot be negative")
	}
	return nil
}

func recurringFrom(r *dto.RecurringRequest) *models.Recurring {
	if r == nil {
		return nil
	}
	return &models.Recurring{Frequency: r.Frequency, EndDate: r.EndDate, NextDate: r.NextDate}
}

func transactionPayload(tx *models.Transaction, actor string) events.TransactionPayload {
	return events.TransactionPayload{
		TransactionID: tx.TransactionID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		CategoryID:    tx.CategoryID,
		Status:        string(tx.Status),
		Actor:         actor,
	}
}
