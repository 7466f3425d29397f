package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/middleware"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/response"
)

type TransactionService interface {
	List(ctx context.Context, q dto.TransactionQuery) (dto.TransactionList, error)
	Get(ctx context.Context, p models.Principal, id string) (*models.Transaction, error)
	Create(ctx context.Context, p models.Principal, req dto.CreateTransactionRequest) (*models.Transaction, error)
	Update(ctx context.Context, p models.Principal, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, p models.Principal, id string) error
	Approve(ctx context.Context, p models.Principal, id string) (*models.Transaction, error)
	Reject(ctx context.Context, p models.Principal, id string) (*models.Transaction, error)
	MonthlySummary(ctx context.Context, month, year int) (dto.MonthlySummary, error)
	CategoryTotals(ctx context.Context) ([]dto.CategoryTotal, error)
	Stats(ctx context.Context) ([]aggregate.TransactionStat, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
	Location        *time.Location
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		Location:        deps.Location,
	}
}

// TransactionRoutes expects to be mounted behind the auth middleware.
func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary", h.MonthlySummary) // static paths before /{id}
	r.Get("/categories", h.CategoryTotals)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleFinanceAdmin))
		r.Put("/{id}/approve", h.Approve)
		r.Put("/{id}/reject", h.Reject)
	})
	return r
}

func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseTransactionQuery(r, h.Location)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	list, err := h.TransactionSvc.List(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteList(w, r, list.Total, list.Transactions)
}

func (h *transactionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r.Context())
	tx, err := h.TransactionSvc.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	p := middleware.Principal(r.Context())
	tx, err := h.TransactionSvc.Create(r.Context(), p, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tx)
}

func (h *transactionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	p := middleware.Principal(r.Context())
	tx, err := h.TransactionSvc.Update(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r.Context())
	if err := h.TransactionSvc.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r.Context())
	tx, err := h.TransactionSvc.Approve(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r.Context())
	tx, err := h.TransactionSvc.Reject(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.TransactionSvc.MonthlySummary(r.Context(), month, year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *transactionHandlers) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.TransactionSvc.CategoryTotals(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, totals)
}

func (h *transactionHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.TransactionSvc.Stats(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}
