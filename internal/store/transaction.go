package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection("transactions")
}

// Create writes tx and, for expenses, adds its amount to the currentSpent of
// the budget for the same category and calendar month (taken in loc). Both
// writes commit together. The updated budget is returned, or nil when the
// transaction is not attributed to any budget.
func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction, loc *time.Location) (*models.Budget, error) {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	var updated *models.Budget
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		updated = nil

		var budgetRef *firestore.DocumentRef
		var budget models.Budget
		if tx.Type == models.TransactionExpense {
			key := models.KeyFor(tx.CategoryID, tx.Date, loc)
			docs, err := t.Documents(budgetKeyQuery(s.client, key).Limit(1)).GetAll()
			if err != nil {
				return err
			}
			if len(docs) > 0 {
				if err := docs[0].DataTo(&budget); err != nil {
					return err
				}
				budgetRef = docs[0].Ref
			}
		}

		if err := t.Create(s.collection().Doc(tx.TransactionID), tx); err != nil {
			return err
		}

		if budgetRef == nil {
			return nil
		}
		spent := decimal.NewFromFloat(budget.CurrentSpent).Add(decimal.NewFromFloat(tx.Amount))
		budget.CurrentSpent = spent.InexactFloat64()
		budget.UpdatedAt = now
		if err := t.Update(budgetRef, []firestore.Update{
			{Path: "currentSpent", Value: budget.CurrentSpent},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		updated = &budget
		return nil
	})
	if err != nil {
		return nil, txError("create", "failed to create transaction", err)
	}
	return updated, nil
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "transaction")
	}
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return &tx, nil
}

// Update writes the member-editable fields of tx. Type, status, approvedBy and
// createdBy belong to Create and Decide and are refreshed on tx from the
// stored document, so a concurrent decision is never undone.
func (s *transactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	ref := s.collection().Doc(tx.TransactionID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		doc, err := t.Get(ref)
		if err != nil {
			return readError(err, "transaction")
		}
		var current models.Transaction
		if err := doc.DataTo(&current); err != nil {
			return err
		}

		var recurring any = firestore.Delete
		if tx.Recurring != nil {
			recurring = tx.Recurring
		}
		tx.Type = current.Type
		tx.Status = current.Status
		tx.ApprovedBy = current.ApprovedBy
		tx.CreatedBy = current.CreatedBy
		tx.CreatedAt = current.CreatedAt
		tx.UpdatedAt = now
		return t.Update(ref, []firestore.Update{
			{Path: "description", Value: tx.Description},
			{Path: "amount", Value: tx.Amount},
			{Path: "categoryId", Value: tx.CategoryID},
			{Path: "category", Value: tx.Category},
			{Path: "date", Value: tx.Date},
			{Path: "receiptUrl", Value: tx.ReceiptURL},
			{Path: "tags", Value: tx.Tags},
			{Path: "notes", Value: tx.Notes},
			{Path: "recurring", Value: recurring},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return txError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection().Doc(id).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// Decide moves a pending transaction to approved or rejected. Any other
// current status is a conflict.
func (s *transactionStore) Decide(ctx context.Context, id string, to models.TransactionStatus, by string) (*models.Transaction, error) {
	ref := s.collection().Doc(id)
	var tx models.Transaction
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		doc, err := t.Get(ref)
		if err != nil {
			return readError(err, "transaction")
		}
		tx = models.Transaction{}
		if err := doc.DataTo(&tx); err != nil {
			return err
		}
		if tx.Status != models.StatusPending {
			return errs.NewConflictError("transaction is already " + string(tx.Status))
		}

		now := time.Now()
		tx.Status = to
		tx.ApprovedBy = by
		tx.UpdatedAt = now
		return t.Update(ref, []firestore.Update{
			{Path: "status", Value: to},
			{Path: "approvedBy", Value: by},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, txError("update", "failed to update transaction status", err)
	}
	return &tx, nil
}

// Page returns one page of transactions matching q and the total match count.
func (s *transactionStore) Page(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, int, error) {
	base := s.filtered(q)

	res, err := base.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("read", "failed to count transactions", err)
	}
	total := 0
	if v, ok := res["total"]; ok {
		total = countValue(v)
	}

	query := sorted(base, q.Sort)
	if q.Page > 1 && q.Limit > 0 {
		query = query.Offset((q.Page - 1) * q.Limit)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	out := make([]models.Transaction, 0, q.Limit)
	err = each(ctx, query, func(tx *models.Transaction) error {
		out = append(out, *tx)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Query streams every transaction matching q's filters to handle.
func (s *transactionStore) Query(ctx context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	query := sorted(s.filtered(q), q.Sort)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return each(ctx, query, handle)
}

func (s *transactionStore) ExistsForCategory(ctx context.Context, categoryID string) (bool, error) {
	docs, err := s.collection().Where("categoryId", "==", categoryID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to check category usage", err)
	}
	return len(docs) > 0, nil
}

func (s *transactionStore) filtered(q dto.TransactionQuery) firestore.Query {
	query := s.collection().Query
	if q.Type != nil {
		query = query.Where("type", "==", string(*q.Type))
	}
	if q.Status != nil {
		query = query.Where("status", "==", string(*q.Status))
	}
	if q.CategoryID != nil {
		query = query.Where("categoryId", "==", *q.CategoryID)
	}
	if q.CreatedBy != nil {
		query = query.Where("createdBy", "==", *q.CreatedBy)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}
	if q.CreatedFrom != nil {
		query = query.Where("createdAt", ">=", *q.CreatedFrom)
	}
	return query
}

func sorted(query firestore.Query, fields []dto.SortField) firestore.Query {
	for _, f := range fields {
		dir := firestore.Asc
		if f.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(f.Field, dir)
	}
	return query
}

func each(ctx context.Context, query firestore.Query, handle func(*models.Transaction) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := handle(&tx); err != nil {
			return err
		}
	}
}

func countValue(v any) int {
	switch n := v.(type) {
	case *firestorepb.Value:
		return int(n.GetIntegerValue())
	case int64:
		return int(n)
	}
	return 0
}
