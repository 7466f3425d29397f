package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

type categoryStore struct {
	client *firestore.Client
}

func NewCategoryStore(client *firestore.Client) *categoryStore {
	return &categoryStore{client: client}
}

func (s *categoryStore) collection() *firestore.CollectionRef {
	return s.client.Collection("categories")
}

// nameTaken compares names case-insensitively across all categories.
func (s *categoryStore) nameTaken(t *firestore.Transaction, name, exceptID string) (bool, error) {
	docs, err := t.Documents(s.collection().Query).GetAll()
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.Ref.ID == exceptID {
			continue
		}
		if other, _ := d.Data()["name"].(string); strings.EqualFold(other, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *categoryStore) Create(ctx context.Context, c *models.Category) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		taken, err := s.nameTaken(t, c.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExistsError("category name already in use")
		}
		return t.Create(s.collection().Doc(c.CategoryID), c)
	})
	if err != nil {
		return txError("create", "failed to create category", err)
	}
	return nil
}

func (s *categoryStore) Get(ctx context.Context, id string) (*models.Category, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "category")
	}
	var c models.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
	}
	return &c, nil
}

func (s *categoryStore) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := s.collection().OrderBy("name", firestore.Asc)
	if activeOnly {
		query = s.collection().Where("isActive", "==", true).OrderBy("name", firestore.Asc)
	}
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list categories", err)
	}
	out := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		var c models.Category
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *categoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now()
	ref := s.collection().Doc(c.CategoryID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		taken, err := s.nameTaken(t, c.Name, c.CategoryID)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewAlreadyExistsError("category name already in use")
		}
		return t.Set(ref, c)
	})
	if err != nil {
		return txError("update", "failed to update category", err)
	}
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection().Doc(id).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete category", err)
	}
	return nil
}
