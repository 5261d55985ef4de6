package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/sunpay/installment-service/internal/installment"
)

func newTermCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "term <days>",
		Short:   "Render a day count as years, months and days",
		Example: "  sunpayctl term 1080",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("days must be an integer: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), installment.HumanReadableTerm(days))
			return nil
		},
	}
}
