package main

import (
	"fmt"
	"strings"

	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/rootlocus22/trucktax-app-sub002/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTaxCmd() *cobra.Command {
	var (
		category  string
		month     string
		logging   string
		suspended bool
		refund    bool
	)

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Look up the prorated tax or refund for a single vehicle",
		Example: `  hvut tax --category G --month August
  hvut tax --category V --month February --logging true
  hvut tax --category H --month January --refund`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ParseWeightCategory(category)
			if err != nil {
				return err
			}
			l, err := domain.ParseLoggingStatus(logging)
			if err != nil {
				return err
			}

			label, amount := "Tax", decimal.Zero
			if refund {
				label = "Refund"
				amount, err = calculation.RefundForVehicle(c, suspended, month)
			} else {
				amount, err = calculation.TaxForVehicle(c, l, month, suspended)
			}
			if err != nil {
				return err
			}

			annual, err := calculation.AnnualRate(c, l)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Category:    %s (%s lbs)\n", c, c.WeightRange())
			fmt.Fprintf(out, "Logging:     %s\n", loggingLabel(l))
			fmt.Fprintf(out, "Annual rate: %s\n", output.FormatCurrency(annual))
			fmt.Fprintf(out, "Month:       %s\n", strings.TrimSpace(month))
			fmt.Fprintf(out, "%-12s %s\n", label+":", output.FormatCurrency(amount))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "weight category A-W")
	cmd.Flags().StringVarP(&month, "month", "m", "July", "first-used month (or disposition month with --refund)")
	cmd.Flags().StringVar(&logging, "logging", "", "logging vehicle: true, false or empty for unspecified")
	cmd.Flags().BoolVar(&suspended, "suspended", false, "vehicle is suspended (5,000/7,500 mile limit)")
	cmd.Flags().BoolVar(&refund, "refund", false, "compute the refund from --month through June")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func loggingLabel(l domain.LoggingStatus) string {
	if l == domain.LoggingUnspecified {
		return "unspecified (standard rate)"
	}
	return string(l)
}
