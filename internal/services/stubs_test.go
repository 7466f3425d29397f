package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

type stubTransactionStore struct {
	txs map[string]*models.Transaction

	createBudget *models.Budget
	created      *models.Transaction
	createLoc    *time.Location
	createErr    error
	updated      *models.Transaction
	deletedID    string
	decideErr    error
	lastPage     dto.TransactionQuery
	lastQuery    dto.TransactionQuery
	queryErr     error
}

func newStubTransactionStore(txs ...models.Transaction) *stubTransactionStore {
	s := &stubTransactionStore{txs: map[string]*models.Transaction{}}
	for i := range txs {
		tx := txs[i]
		s.txs[tx.TransactionID] = &tx
	}
	return s
}

func (s *stubTransactionStore) Create(_ context.Context, tx *models.Transaction, loc *time.Location) (*models.Budget, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	cp := *tx
	s.created = &cp
	s.createLoc = loc
	s.txs[tx.TransactionID] = &cp
	return s.createBudget, nil
}

func (s *stubTransactionStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	cp := *tx
	return &cp, nil
}

func (s *stubTransactionStore) Update(_ context.Context, tx *models.Transaction) error {
	cp := *tx
	s.updated = &cp
	s.txs[tx.TransactionID] = &cp
	return nil
}

func (s *stubTransactionStore) Delete(_ context.Context, id string) error {
	s.deletedID = id
	delete(s.txs, id)
	return nil
}

func (s *stubTransactionStore) Decide(_ context.Context, id string, to models.TransactionStatus, by string) (*models.Transaction, error) {
	if s.decideErr != nil {
		return nil, s.decideErr
	}
	tx, ok := s.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	if tx.Status != models.StatusPending {
		return nil, errs.NewConflictError("transaction is already " + string(tx.Status))
	}
	tx.Status = to
	tx.ApprovedBy = by
	cp := *tx
	return &cp, nil
}

func (s *stubTransactionStore) Page(_ context.Context, q dto.TransactionQuery) ([]models.Transaction, int, error) {
	s.lastPage = q
	var out []models.Transaction
	for _, tx := range s.txs {
		if matches(tx, q) {
			out = append(out, *tx)
		}
	}
	return out, len(out), nil
}

func (s *stubTransactionStore) Query(_ context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	s.lastQuery = q
	if s.queryErr != nil {
		return s.queryErr
	}
	for _, tx := range s.txs {
		if !matches(tx, q) {
			continue
		}
		cp := *tx
		if err := handle(&cp); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubTransactionStore) ExistsForCategory(_ context.Context, categoryID string) (bool, error) {
	for _, tx := range s.txs {
		if tx.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func matches(tx *models.Transaction, q dto.TransactionQuery) bool {
	if q.Type != nil && tx.Type != *q.Type {
		return false
	}
	if q.Status != nil && tx.Status != *q.Status {
		return false
	}
	if q.CategoryID != nil && tx.CategoryID != *q.CategoryID {
		return false
	}
	if q.DateFrom != nil && tx.Date.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && tx.Date.After(*q.DateTo) {
		return false
	}
	if q.CreatedFrom != nil && tx.CreatedAt.Before(*q.CreatedFrom) {
		return false
	}
	return true
}

type stubCategoryStore struct {
	categories map[string]*models.Category
	created    *models.Category
	updated    *models.Category
	deletedID  string
	createErr  error
}

func newStubCategoryStore(cs ...models.Category) *stubCategoryStore {
	s := &stubCategoryStore{categories: map[string]*models.Category{}}
	for i := range cs {
		c := cs[i]
		s.categories[c.CategoryID] = &c
	}
	return s
}

func (s *stubCategoryStore) Create(_ context.Context, c *models.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *c
	s.created = &cp
	s.categories[c.CategoryID] = &cp
	return nil
}

func (s *stubCategoryStore) Get(_ context.Context, id string) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, errs.NewNotFoundError("category not found")
	}
	cp := *c
	return &cp, nil
}

func (s *stubCategoryStore) List(_ context.Context, activeOnly bool) ([]models.Category, error) {
	var out []models.Category
	for _, c := range s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryStore) Update(_ context.Context, c *models.Category) error {
	cp := *c
	s.updated = &cp
	s.categories[c.CategoryID] = &cp
	return nil
}

func (s *stubCategoryStore) Delete(_ context.Context, id string) error {
	s.deletedID = id
	delete(s.categories, id)
	return nil
}

type stubBudgetStore struct {
	budgets   map[string]*models.Budget
	created   *models.Budget
	updated   *models.Budget
	deletedID string
	createErr error
	lastList  dto.BudgetQuery
}

func newStubBudgetStore(bs ...models.Budget) *stubBudgetStore {
	s := &stubBudgetStore{budgets: map[string]*models.Budget{}}
	for i := range bs {
		b := bs[i]
		s.budgets[b.BudgetID] = &b
	}
	return s
}

func (s *stubBudgetStore) Create(_ context.Context, b *models.Budget) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *b
	s.created = &cp
	s.budgets[b.BudgetID] = &cp
	return nil
}

func (s *stubBudgetStore) Get(_ context.Context, id string) (*models.Budget, error) {
	b, ok := s.budgets[id]
	if !ok {
		return nil, errs.NewNotFoundError("budget not found")
	}
	cp := *b
	return &cp, nil
}

func (s *stubBudgetStore) Update(_ context.Context, b *models.Budget) error {
	cp := *b
	s.updated = &cp
	s.budgets[b.BudgetID] = &cp
	return nil
}

func (s *stubBudgetStore) Delete(_ context.Context, id string) error {
	s.deletedID = id
	delete(s.budgets, id)
	return nil
}

func (s *stubBudgetStore) List(_ context.Context, q dto.BudgetQuery) ([]models.Budget, error) {
	s.lastList = q
	var out []models.Budget
	for _, b := range s.budgets {
		if q.Year != nil && b.Year != *q.Year {
			continue
		}
		if q.Month != nil && b.Month != *q.Month {
			continue
		}
		if q.CreatedFrom != nil && b.CreatedAt.Before(*q.CreatedFrom) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

// prefixSealer marks sealed values so tests can tell what reached the store.
type prefixSealer struct{}

func (prefixSealer) Seal(_ context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return "sealed:" + plaintext, nil
}

func (prefixSealer) Open(_ context.Context, sealed string) (string, error) {
	return strings.TrimPrefix(sealed, "sealed:"), nil
}
