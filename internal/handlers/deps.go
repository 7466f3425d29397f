package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GregMSThompson/fintrack/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	// Auth verifies the bearer token; routes that are not public sit behind it.
	Auth           func(http.Handler) http.Handler
	Location       *time.Location
	TransactionSvc TransactionService
	BudgetSvc      BudgetService
	CategorySvc    CategoryService
	UserSvc        UserService
}
