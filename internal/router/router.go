package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/fintrack/internal/handlers"
	"github.com/GregMSThompson/fintrack/internal/middleware"
)

func NewRouter(deps *handlers.Deps, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	ush := handlers.NewUserHandlers(deps)
	txh := handlers.NewTransactionHandlers(deps)
	bdh := handlers.NewBudgetHandlers(deps)
	cth := handlers.NewCategoryHandlers(deps)

	r.Route("/api/v1", func(r chi.Router) {
		// category reads are public; the handlers apply auth to the rest
		r.Mount("/categories", cth.CategoryRoutes())

		r.Group(func(r chi.Router) {
			if deps.Auth != nil {
				r.Use(deps.Auth)
			}
			r.Mount("/auth", ush.AuthRoutes())
			r.Mount("/users", ush.UserRoutes())
			r.Mount("/transactions", txh.TransactionRoutes())
			r.Mount("/budgets", bdh.BudgetRoutes())
		})
	})
	return r
}
