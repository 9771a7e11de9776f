package main

import (
	"fmt"
	"strings"

	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/output"
	"github.com/spf13/cobra"
)

func newRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the annual rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-20s %12s %12s\n", "CAT", "WEIGHT (LBS)", "STANDARD", "LOGGING")
			fmt.Fprintln(out, strings.Repeat("-", 51))
			for _, row := range calculation.RateTable() {
				fmt.Fprintf(out, "%-4s %-20s %12s %12s\n", row.Category, row.WeightRange, output.FormatCurrency(row.Standard), output.FormatCurrency(row.Logging))
			}
			return nil
		},
	}
}
