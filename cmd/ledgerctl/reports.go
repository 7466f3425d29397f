package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/fintrack/internal/dto"
)

type reportTransactions interface {
	MonthlySummary(ctx context.Context, month, year int) (dto.MonthlySummary, error)
	CategoryTotals(ctx context.Context) ([]dto.CategoryTotal, error)
}

type reportBudgets interface {
	Report(ctx context.Context, year, month int) (dto.BudgetReport, error)
}

// monthFlags registers --year and --month (0-11), defaulting to the current month.
func monthFlags(cmd *cobra.Command, year, month *int) {
	now := time.Now()
	cmd.Flags().IntVar(year, "year", now.Year(), "calendar year")
	cmd.Flags().IntVar(month, "month", int(now.Month())-1, "month, 0 for January")
}

func summaryCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Approved income, expenses and balance for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openReporters(cmd)
			if err != nil {
				return err
			}
			defer r.close()

			s, err := r.transactions.MonthlySummary(cmd.Context(), month, year)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), s)
		},
	}
	monthFlags(cmd, &year, &month)
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "All-time approved totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openReporters(cmd)
			if err != nil {
				return err
			}
			defer r.close()

			totals, err := r.transactions.CategoryTotals(cmd.Context())
			if err != nil {
				return err
			}
			return writeCategoryTotals(cmd.OutOrStdout(), totals)
		},
	}
}

func budgetsCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Budget report for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openReporters(cmd)
			if err != nil {
				return err
			}
			defer r.close()

			report, err := r.budgets.Report(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return writeBudgetReport(cmd.OutOrStdout(), report)
		},
	}
	monthFlags(cmd, &year, &month)
	return cmd
}

func writeSummary(out io.Writer, s dto.MonthlySummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Month\t%s %d\n", time.Month(s.Month+1), s.Year)
	fmt.Fprintf(w, "Income\t%s\n", s.FormattedIncome)
	fmt.Fprintf(w, "Expenses\t%s\n", s.FormattedExpenses)
	fmt.Fprintf(w, "Balance\t%s\n", s.FormattedBalance)
	fmt.Fprintf(w, "Transactions\t%d\n", len(s.Transactions))
	return w.Flush()
}

func writeCategoryTotals(out io.Writer, totals []dto.CategoryTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(out, "No approved transactions.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tINCOME\tEXPENSE")
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Category, t.FormattedIncome, t.FormattedExpense)
	}
	return w.Flush()
}

func writeBudgetReport(out io.Writer, r dto.BudgetReport) error {
	if len(r.Items) == 0 {
		_, err := fmt.Fprintf(out, "No budgets for %s %d.\n", time.Month(r.Month+1), r.Year)
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tLIMIT\tSPENT\tREMAINING\tUSED\tSTATUS")
	for _, it := range r.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
			it.CategoryName, it.FormattedLimit, it.FormattedSpent, it.FormattedRemaining, it.PercentageUsed, it.Status)
	}
	return w.Flush()
}
