package main

import (
	"fmt"
	"time"

	"github.com/rootlocus22/trucktax-app-sub002/pkg/taxyear"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

func newDueDateCmd() *cobra.Command {
	var (
		month   string
		taxYear int
	)

	cmd := &cobra.Command{
		Use:     "due-date",
		Short:   "Print the filing deadline for a first-use, weight increase or mileage exceedance month",
		Example: `  hvut due-date --month September --tax-year 2025`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := taxyear.ParseMonth(month)
			if err != nil {
				return err
			}
			if taxYear <= 0 {
				taxYear = taxyear.ForDate(now())
			}
			due := taxyear.DueDate(taxYear, m)
			fmt.Fprintf(cmd.OutOrStdout(), "Tax period %d-%d, event in %s %d: due %s\n",
				taxYear, taxYear+1, m, taxyear.CalendarYear(taxYear, m), due.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month of the event")
	cmd.Flags().IntVar(&taxYear, "tax-year", 0, "year the July-June tax period starts (defaults to the current period)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
