package calculation

import (
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

// RATE TABLE ASSUMPTIONS:
//
// 1. Annual Form 2290 rates for a full tax period (July through June).
//    Category A is $100; each additional 1,000 lbs adds $22 up to category U;
//    category V (over 75,000 lbs) is capped at $550.
//
// 2. Logging vehicles pay exactly 75% of the standard rate in every row,
//    including V ($412.50).
//
// 3. Category W carries V's rates for display only. Suspended vehicles owe $0.

type annualRate struct {
	Standard decimal.Decimal
	Logging  decimal.Decimal
}

var rateTable = map[domain.WeightCategory]annualRate{
	"A": {decimal.RequireFromString("100.00"), decimal.RequireFromString("75.00")},
	"B": {decimal.RequireFromString("122.00"), decimal.RequireFromString("91.50")},
	"C": {decimal.RequireFromString("144.00"), decimal.RequireFromString("108.00")},
	"D": {decimal.RequireFromString("166.00"), decimal.RequireFromString("124.50")},
	"E": {decimal.RequireFromString("188.00"), decimal.RequireFromString("141.00")},
	"F": {decimal.RequireFromString("210.00"), decimal.RequireFromString("157.50")},
	"G": {decimal.RequireFromString("232.00"), decimal.RequireFromString("174.00")},
	"H": {decimal.RequireFromString("254.00"), decimal.RequireFromString("190.50")},
	"I": {decimal.RequireFromString("276.00"), decimal.RequireFromString("207.00")},
	"J": {decimal.RequireFromString("298.00"), decimal.RequireFromString("223.50")},
	"K": {decimal.RequireFromString("320.00"), decimal.RequireFromString("240.00")},
	"L": {decimal.RequireFromString("342.00"), decimal.RequireFromString("256.50")},
	"M": {decimal.RequireFromString("364.00"), decimal.RequireFromString("273.00")},
	"N": {decimal.RequireFromString("386.00"), decimal.RequireFromString("289.50")},
	"O": {decimal.RequireFromString("408.00"), decimal.RequireFromString("306.00")},
	"P": {decimal.RequireFromString("430.00"), decimal.RequireFromString("322.50")},
	"Q": {decimal.RequireFromString("452.00"), decimal.RequireFromString("339.00")},
	"R": {decimal.RequireFromString("474.00"), decimal.RequireFromString("355.50")},
	"S": {decimal.RequireFromString("496.00"), decimal.RequireFromString("372.00")},
	"T": {decimal.RequireFromString("518.00"), decimal.RequireFromString("388.50")},
	"U": {decimal.RequireFromString("540.00"), decimal.RequireFromString("405.00")},
	"V": {decimal.RequireFromString("550.00"), decimal.RequireFromString("412.50")},
	"W": {decimal.RequireFromString("550.00"), decimal.RequireFromString("412.50")},
}

// AnnualRate returns the full-period tax for a category. Only an explicit
// logging status selects the logging table.
func AnnualRate(category domain.WeightCategory, logging domain.LoggingStatus) (decimal.Decimal, error) {
	r, ok := rateTable[category]
	if !ok {
		return decimal.Zero, domain.NewValidationError("category", "unknown weight category %q", category)
	}
	if logging.IsLogging() {
		return r.Logging, nil
	}
	return r.Standard, nil
}

// RateRow is one printable row of the rate table.
type RateRow struct {
	Category    domain.WeightCategory `json:"category"`
	WeightRange string                `json:"weight_range"`
	Standard    decimal.Decimal       `json:"standard"`
	Logging     decimal.Decimal       `json:"logging"`
}

// RateTable returns the table in ascending weight order.
func RateTable() []RateRow {
	rows := make([]RateRow, 0, len(rateTable))
	for _, c := range domain.WeightCategories() {
		r := rateTable[c]
		rows = append(rows, RateRow{Category: c, WeightRange: c.WeightRange(), Standard: r.Standard, Logging: r.Logging})
	}
	return rows
}
