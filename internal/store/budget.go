package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection() *firestore.CollectionRef {
	return s.client.Collection("budgets")
}

func budgetKeyQuery(client *firestore.Client, key models.BudgetKey) firestore.Query {
	return client.Collection("budgets").
		Where("categoryId", "==", key.CategoryID).
		Where("year", "==", key.Year).
		Where("month", "==", key.Month)
}

// keyTaken reports whether another budget already holds key. Must run before
// any write in t.
func (s *budgetStore) keyTaken(t *firestore.Transaction, key models.BudgetKey, exceptID string) (bool, error) {
	docs, err := t.Documents(budgetKeyQuery(s.client, key).Limit(2)).GetAll()
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.Ref.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (s *budgetStore) Create(ctx context.Context, b *models.Budget) error {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		taken, err := s.keyTaken(t, b.Key(), "")
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExistsError("budget already exists for this category and month")
		}
		return t.Create(s.collection().Doc(b.BudgetID), b)
	})
	if err != nil {
		return txError("create", "failed to create budget", err)
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "budget")
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

// Update writes the editable fields of b, re-checking that its key stays
// unique. currentSpent is owned by transactionStore.Create and is never
// written here; b.CurrentSpent is refreshed from the stored document.
func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	now := time.Now()
	ref := s.collection().Doc(b.BudgetID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		doc, err := t.Get(ref)
		if err != nil {
			return readError(err, "budget")
		}
		var current models.Budget
		if err := doc.DataTo(&current); err != nil {
			return err
		}
		taken, err := s.keyTaken(t, b.Key(), b.BudgetID)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExistsError("budget already exists for this category and month")
		}

		b.CurrentSpent = current.CurrentSpent
		b.CreatedAt = current.CreatedAt
		b.UpdatedAt = now
		return t.Update(ref, []firestore.Update{
			{Path: "categoryId", Value: b.CategoryID},
			{Path: "categoryName", Value: b.CategoryName},
			{Path: "monthlyLimit", Value: b.MonthlyLimit},
			{Path: "year", Value: b.Year},
			{Path: "month", Value: b.Month},
			{Path: "alerts", Value: b.Alerts},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return txError("update", "failed to update budget", err)
	}
	return nil
}

func (s *budgetStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection().Doc(id).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}

func (s *budgetStore) List(ctx context.Context, q dto.BudgetQuery) ([]models.Budget, error) {
	query := s.collection().Query
	if q.Year != nil {
		query = query.Where("year", "==", *q.Year)
	}
	if q.Month != nil {
		query = query.Where("month", "==", *q.Month)
	}
	if q.CategoryID != nil {
		query = query.Where("categoryId", "==", *q.CategoryID)
	}
	if q.CreatedFrom != nil {
		query = query.Where("createdAt", ">=", *q.CreatedFrom)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []models.Budget
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
		}
		var b models.Budget
		if err := doc.DataTo(&b); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		out = append(out, b)
	}
	return out, nil
}
