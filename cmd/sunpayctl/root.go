package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sunpayctl",
		Short:         "SunPay installment calculator",
		Long:          "Compute installment progress and remaining terms for pay-as-you-go solar plans.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newProgressCmd())
	root.AddCommand(newTermCmd())
	return root
}
