package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/rootlocus22/trucktax-app-sub002/pkg/taxyear"
)

// Prints the prorated standard and logging tax of one category for every
// first-used month of the period. Usage: print_prorate [category]
func main() {
	category := domain.WeightCategory("V")
	if len(os.Args) > 1 {
		c, err := domain.ParseWeightCategory(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		category = c
	}

	fmt.Printf("Category %s (%s lbs)\n", category, category.WeightRange())
	fmt.Printf("%-10s %6s %10s %10s\n", "MONTH", "MONTHS", "STANDARD", "LOGGING")
	fmt.Println(strings.Repeat("-", 39))
	for _, m := range taxyear.Months() {
		std, err := calculation.TaxForVehicle(category, domain.NonLogging, m.String(), false)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logging, err := calculation.TaxForVehicle(category, domain.Logging, m.String(), false)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%-10s %6d %10s %10s\n", m, taxyear.MonthsRemaining(m), std.StringFixed(2), logging.StringFixed(2))
	}
}
