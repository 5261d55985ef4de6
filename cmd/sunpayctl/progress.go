package main

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/sunpay/installment-service/internal/installment"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

type progressOptions struct {
	unlock   string
	minimum  string
	paid     string
	due      string
	today    string
	currency string
	locale   string
}

func newProgressCmd() *cobra.Command {
	opts := &progressOptions{}

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show progress, balance and remaining term for a plan snapshot",
		Example: `  sunpayctl progress --unlock 1500000 --minimum 25000 --paid 600000
  sunpayctl progress --unlock 153000 --minimum 2400 --paid 9000 --due 2026-11-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProgress(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.unlock, "unlock", "", "Unlock price")
	cmd.Flags().StringVar(&opts.minimum, "minimum", "", "Minimum payment per 30-day period")
	cmd.Flags().StringVar(&opts.paid, "paid", "0", "Total paid so far")
	cmd.Flags().StringVar(&opts.due, "due", "", "Next due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.today, "today", "", "Evaluate as of this date (YYYY-MM-DD), default now")
	cmd.Flags().StringVar(&opts.currency, "currency", "NGN", "ISO 4217 currency code")
	cmd.Flags().StringVar(&opts.locale, "locale", "en-NG", "Locale for digit grouping")
	_ = cmd.MarkFlagRequired("unlock")
	_ = cmd.MarkFlagRequired("minimum")

	return cmd
}

func runProgress(out io.Writer, opts *progressOptions) error {
	plan, today, err := opts.snapshot()
	if err != nil {
		return err
	}

	report, err := installment.Compute(plan, today)
	if err != nil {
		return err
	}

	tag, err := language.Parse(opts.locale)
	if err != nil {
		return fmt.Errorf("invalid --locale: %w", err)
	}
	formatter := installment.NewLocaleFormatter(tag)

	type row struct {
		label string
		value decimal.Decimal
	}
	rows := []row{
		{"Unlock price", plan.UnlockPrice},
		{"Minimum payment", plan.MinimumPayment},
		{"Total paid", plan.TotalPaid},
		{"Outstanding", report.OutstandingBalance},
	}
	if report.HasOverpayment() {
		rows = append(rows, row{"Overpayment", report.Overpayment})
	}

	fmt.Fprintln(out)
	for _, r := range rows {
		s, err := formatter.Format(r.value, opts.currency)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-24s %s\n", r.label, s)
	}
	fmt.Fprintf(out, "  %-24s %s\n", "Progress", installment.FormatPercent(report.ProgressPercent, 2))
	fmt.Fprintf(out, "  %-24s %d of %d\n", "Installments paid", report.PaidInstallments, report.TotalInstallments)
	fmt.Fprintf(out, "  %-24s %d\n", "Installments remaining", report.RemainingInstallments)
	fmt.Fprintf(out, "  %-24s %s (%d days)\n", "Remaining term", report.HumanReadableTerm, report.RemainingTermDays)

	if report.DaysUntilDue != nil {
		fmt.Fprintf(out, "  %-24s %s\n", "Next due", describeDue(*report.DaysUntilDue))
	}
	if report.IsComplete() {
		fmt.Fprintf(out, "\n  Plan fully paid. System unlocked.\n")
	}
	fmt.Fprintln(out)

	return nil
}

func (o *progressOptions) snapshot() (installment.Plan, time.Time, error) {
	var plan installment.Plan
	var err error

	if plan.UnlockPrice, err = decimal.NewFromString(o.unlock); err != nil {
		return plan, time.Time{}, fmt.Errorf("invalid --unlock: %w", err)
	}
	if plan.MinimumPayment, err = decimal.NewFromString(o.minimum); err != nil {
		return plan, time.Time{}, fmt.Errorf("invalid --minimum: %w", err)
	}
	if plan.TotalPaid, err = decimal.NewFromString(o.paid); err != nil {
		return plan, time.Time{}, fmt.Errorf("invalid --paid: %w", err)
	}
	if o.due != "" {
		if plan.DueDate, err = time.Parse(dateLayout, o.due); err != nil {
			return plan, time.Time{}, fmt.Errorf("invalid --due: %w", err)
		}
	}

	today := time.Now()
	if o.today != "" {
		if today, err = time.Parse(dateLayout, o.today); err != nil {
			return plan, time.Time{}, fmt.Errorf("invalid --today: %w", err)
		}
	}

	return plan, today, nil
}

func describeDue(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -days)
	}
}
