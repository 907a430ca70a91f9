package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"propapi/internal/service"
)

func InvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Run billing jobs on demand",
	}
	cmd.AddCommand(generateInvoicesCmd(), markOverdueCmd())
	return cmd
}

func generateInvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate rent invoices for every active lease",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			raw, _ := cmd.Flags().GetString("month")
			month, err := parseMonth(raw, time.Now().In(e.cfg.Location()), e.cfg.Location())
			if err != nil {
				return err
			}

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			svc, err := e.invoiceService(db)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), svc, month, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("month", "", "Billing month as YYYY-MM, defaults to the current month")
	return cmd
}

func markOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag outstanding invoices past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			svc, err := e.invoiceService(db)
			if err != nil {
				return err
			}
			return runMarkOverdue(cmd.Context(), svc, time.Now().In(e.cfg.Location()), cmd.OutOrStdout())
		},
	}
}

// parseMonth reads YYYY-MM. An empty value means the month containing now.
func parseMonth(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month %q: want YYYY-MM", raw)
	}
	return t, nil
}

type billing interface {
	GenerateForPeriod(ctx context.Context, month time.Time) (service.GenerateResult, error)
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

func runGenerate(ctx context.Context, svc billing, month time.Time, out io.Writer) error {
	res, err := svc.GenerateForPeriod(ctx, month)
	if err != nil {
		return fmt.Errorf("generate invoices for %s: %w", month.Format("2006-01"), err)
	}
	fmt.Fprintf(out, "%s: created=%d skipped=%d failed=%d\n", month.Format("2006-01"), res.Created, res.Skipped, res.Failed)
	return nil
}

func runMarkOverdue(ctx context.Context, svc billing, now time.Time, out io.Writer) error {
	n, err := svc.MarkOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("mark overdue: %w", err)
	}
	fmt.Fprintf(out, "marked %d invoice(s) overdue\n", n)
	return nil
}
