package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/middleware"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/response"
)

type BudgetService interface {
	List(ctx context.Context, q dto.BudgetQuery) ([]models.Budget, error)
	Get(ctx context.Context, id string) (*models.Budget, error)
	Create(ctx context.Context, p models.Principal, req dto.CreateBudgetRequest) (*models.Budget, error)
	Update(ctx context.Context, p models.Principal, id string, req dto.UpdateBudgetRequest) (*models.Budget, error)
	Delete(ctx context.Context, p models.Principal, id string) error
	Report(ctx context.Context, year, month int) (dto.BudgetReport, error)
	Stats(ctx context.Context) ([]aggregate.BudgetStat, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       BudgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

// BudgetRoutes expects to be mounted behind the auth middleware.
func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/report", h.Report)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleFinanceAdmin))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func (h *budgetHandlers) List(w http.ResponseWriter, r *http.Request) {
	var q dto.BudgetQuery
	var err error
	if q.Year, err = queryInt(r, "year"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if q.Month, err = queryInt(r, "month"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if c := r.URL.Query().Get("categoryId"); c != "" {
		q.CategoryID = &c
	}

	budgets, err := h.BudgetSvc.List(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	h.ResponseHandler.WriteList(w, r, len(budgets), budgets)
}

func (h *budgetHandlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.BudgetSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, b)
}

func (h *budgetHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	b, err := h.BudgetSvc.Create(r.Context(), middleware.Principal(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, b)
}

func (h *budgetHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	b, err := h.BudgetSvc.Update(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, b)
}

func (h *budgetHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.BudgetSvc.Delete(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) Report(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	report, err := h.BudgetSvc.Report(r.Context(), year, month)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *budgetHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.BudgetSvc.Stats(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}
