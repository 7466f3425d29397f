package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/GregMSThompson/fintrack/internal/bootstrap"
	"github.com/GregMSThompson/fintrack/internal/config"
	"github.com/GregMSThompson/fintrack/internal/handlers"
	"github.com/GregMSThompson/fintrack/internal/identity"
	"github.com/GregMSThompson/fintrack/internal/middleware"
	"github.com/GregMSThompson/fintrack/internal/money"
	"github.com/GregMSThompson/fintrack/internal/response"
	"github.com/GregMSThompson/fintrack/internal/router"
	"github.com/GregMSThompson/fintrack/internal/services"
	"github.com/GregMSThompson/fintrack/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	exitOnError("invalid config", cfg.Validate(), slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	loc := cfg.Location()
	format := money.NewFormatter(cfg.CurrencySymbol)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	bstore := store.NewBudgetStore(bs.Firestore)
	cstore := store.NewCategoryStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore, identity.NewRoleClaims(bs.Firebase))
	tserv := services.NewTransactionService(tstore, cstore, bs.Sealer, bs.Publisher, format, loc)
	bserv := services.NewBudgetService(bstore, tstore, cstore, format, loc)
	cserv := services.NewCategoryService(cstore, tstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Auth = middleware.NewMiddleware(bs.Firebase).FirebaseAuth
	deps.Location = loc
	deps.UserSvc = userv
	deps.TransactionSvc = tserv
	deps.BudgetSvc = bserv
	deps.CategorySvc = cserv

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps, bs.Log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-ctx.Done()
	bs.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("graceful shutdown failed", "error", err)
	}
}
