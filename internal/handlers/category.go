package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/middleware"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/response"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, p models.Principal, req dto.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, p models.Principal, id string, req dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, p models.Principal, id string) (dto.DeleteCategoryResult, error)
	WithTransactionCounts(ctx context.Context) ([]dto.CategoryWithCount, error)
}

type categoryHandlers struct {
	ResponseHandler response.ResponseHandler
	CategorySvc     CategoryService
	Auth            func(http.Handler) http.Handler
}

func NewCategoryHandlers(deps *Deps) *categoryHandlers {
	return &categoryHandlers{
		ResponseHandler: deps.ResponseHandler,
		CategorySvc:     deps.CategorySvc,
		Auth:            deps.Auth,
	}
}

// CategoryRoutes serves reads publicly and applies Auth to everything else.
func (h *categoryHandlers) CategoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		if h.Auth != nil {
			r.Use(h.Auth)
		}
		r.Get("/with-transactions", h.WithTransactionCounts)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleFinanceAdmin))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
	return r
}

func (h *categoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategorySvc.List(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	h.ResponseHandler.WriteList(w, r, len(categories), categories)
}

func (h *categoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.CategorySvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *categoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	c, err := h.CategorySvc.Create(r.Context(), middleware.Principal(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, c)
}

func (h *categoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	c, err := h.CategorySvc.Update(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *categoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.CategorySvc.Delete(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *categoryHandlers) WithTransactionCounts(w http.ResponseWriter, r *http.Request) {
	out, err := h.CategorySvc.WithTransactionCounts(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteList(w, r, len(out), out)
}
