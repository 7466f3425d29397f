package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/pkg/helpers"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type categoryCSStore interface {
	Create(ctx context.Context, c *models.Category) error
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryUsageStore interface {
	ExistsForCategory(ctx context.Context, categoryID string) (bool, error)
	Query(ctx context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type categoryService struct {
	store        categoryCSStore
	transactions categoryUsageStore
}

func NewCategoryService(store categoryCSStore, transactions categoryUsageStore) *categoryService {
	return &categoryService{store: store, transactions: transactions}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.List(ctx, true)
}

func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.store.Get(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, p models.Principal, req dto.CreateCategoryRequest) (*models.Category, error) {
	if !p.IsFinanceAdmin() {
		return nil, errs.NewForbiddenError("only finance admins can manage categories")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if !req.Type.Valid() {
		return nil, errs.NewValidationErrorf("invalid category type %q", req.Type)
	}

	c := &models.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		Type:        req.Type,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category created", "category_id", c.CategoryID, "name", c.Name)
	return c, nil
}

// Update changes presentation fields only. The type is fixed once transactions
// may reference the category.
func (s *categoryService) Update(ctx context.Context, p models.Principal, id string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	if !p.IsFinanceAdmin() {
		return nil, errs.NewForbiddenError("only finance admins can manage categories")
	}
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.NewValidationError("name cannot be empty")
		}
		c.Name = name
	}
	c.Icon = helpers.ValueOr(req.Icon, c.Icon)
	c.Color = helpers.ValueOr(req.Color, c.Color)
	c.Description = helpers.ValueOr(req.Description, c.Description)
	c.IsActive = helpers.ValueOr(req.IsActive, c.IsActive)

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category updated", "category_id", c.CategoryID)
	return c, nil
}

// Delete removes an unused category. A category still referenced by
// transactions is deactivated instead.
func (s *categoryService) Delete(ctx context.Context, p models.Principal, id string) (dto.DeleteCategoryResult, error) {
	log := logger.FromContext(ctx)
	result := dto.DeleteCategoryResult{ID: id}

	if !p.IsFinanceAdmin() {
		return result, errs.NewForbiddenError("only finance admins can manage categories")
	}
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return result, err
	}

	used, err := s.transactions.ExistsForCategory(ctx, id)
	if err != nil {
		return result, err
	}
	if used {
		c.IsActive = false
		if err := s.store.Update(ctx, c); err != nil {
			return result, err
		}
		result.Deactivated = true
		log.Info("category deactivated", "category_id", id)
		return result, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return result, err
	}
	log.Info("category deleted", "category_id", id)
	return result, nil
}

func (s *categoryService) WithTransactionCounts(ctx context.Context) ([]dto.CategoryWithCount, error) {
	categories, err := s.store.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	err = s.transactions.Query(ctx, dto.TransactionQuery{}, func(tx *models.Transaction) error {
		txs = append(txs, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := aggregate.CountByCategory(txs)
	out := make([]dto.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryWithCount{Category: c, TransactionCount: counts[c.CategoryID]})
	}
	return out, nil
}
