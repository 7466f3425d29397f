package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/fintrack/internal/bootstrap"
	"github.com/GregMSThompson/fintrack/internal/config"
	"github.com/GregMSThompson/fintrack/internal/crypto"
	"github.com/GregMSThompson/fintrack/internal/events"
	"github.com/GregMSThompson/fintrack/internal/money"
	"github.com/GregMSThompson/fintrack/internal/services"
	"github.com/GregMSThompson/fintrack/internal/store"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "ledgerctl",
	Short:        "Read-only reports over the fintrack ledger",
	Long:         "ledgerctl prints the monthly summary, category totals and budget report straight from Firestore.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("timezone", "", "override TIMEZONE for month bucketing")
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(budgetsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type reporters struct {
	transactions reportTransactions
	budgets      reportBudgets
	close        func() error
}

// openReporters wires the same services the API uses, minus auth and events.
func openReporters(cmd *cobra.Command) (*reporters, error) {
	cfg := config.New()
	if tz, _ := cmd.Flags().GetString("timezone"); tz != "" {
		cfg.Timezone = tz
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	slog.SetDefault(log)

	fs, err := bootstrap.InitFirestore(cmd.Context(), cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}

	loc := cfg.Location()
	format := money.NewFormatter(cfg.CurrencySymbol)
	tstore := store.NewTransactionStore(fs)
	cstore := store.NewCategoryStore(fs)
	bstore := store.NewBudgetStore(fs)

	return &reporters{
		transactions: services.NewTransactionService(tstore, cstore, crypto.Plain{}, events.Noop{}, format, loc),
		budgets:      services.NewBudgetService(bstore, tstore, cstore, format, loc),
		close:        fs.Close,
	}, nil
}
