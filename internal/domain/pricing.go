package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LineKind classifies a per-vehicle line of the breakdown.
type LineKind string

const (
	LineTax    LineKind = "tax"
	LineCredit LineKind = "credit"
	LineRefund LineKind = "refund"
)

// VehicleLine is the amount attributed to one vehicle.
type VehicleLine struct {
	VIN      string          `json:"vin"`
	Type     VehicleType     `json:"type"`
	Category WeightCategory  `json:"category"`
	Month    string          `json:"month"`
	Kind     LineKind        `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
}

// PricingBreakdown is the derived cost of a filing. It is recomputed from the
// intent and vehicles on every change and never treated as the source of truth.
type PricingBreakdown struct {
	TotalTax         decimal.Decimal `json:"total_tax"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	AdditionalTaxDue decimal.Decimal `json:"additional_tax_due"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	SalesTax         decimal.Decimal `json:"sales_tax"`
	CouponDiscount   decimal.Decimal `json:"coupon_discount"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	TotalRefund      decimal.Decimal `json:"total_refund"`
	BulkSavings      decimal.Decimal `json:"bulk_savings"`
	VehicleCount     int             `json:"vehicle_count"`
	StandardRate     decimal.Decimal `json:"standard_rate"`
	SalesTaxRate     decimal.Decimal `json:"sales_tax_rate"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	Lines            []VehicleLine   `json:"lines,omitempty"`
}

// BulkTier sets the per-vehicle service fee once a filing reaches MinVehicles.
type BulkTier struct {
	MinVehicles    int             `yaml:"min_vehicles" json:"min_vehicles"`
	PerVehicleRate decimal.Decimal `yaml:"per_vehicle_rate" json:"per_vehicle_rate"`
}

// FeeSchedule holds the business constants used by pricing. Rates in
// SalesTaxRates are fractions (0.06 is six percent), keyed by state code.
type FeeSchedule struct {
	StandardRate        decimal.Decimal            `yaml:"standard_rate" json:"standard_rate"`
	AmendmentFee        decimal.Decimal            `yaml:"amendment_fee" json:"amendment_fee"`
	RefundFee           decimal.Decimal            `yaml:"refund_fee" json:"refund_fee"`
	BulkTiers           []BulkTier                 `yaml:"bulk_tiers,omitempty" json:"bulk_tiers,omitempty"`
	SalesTaxRates       map[string]decimal.Decimal `yaml:"sales_tax_rates,omitempty" json:"sales_tax_rates,omitempty"`
	DefaultSalesTaxRate decimal.Decimal            `yaml:"default_sales_tax_rate" json:"default_sales_tax_rate"`
}

// PerVehicleRate is the step function of vehicle count: the rate of the
// highest tier reached, or StandardRate below the first tier.
func (fs FeeSchedule) PerVehicleRate(vehicleCount int) decimal.Decimal {
	tiers := append([]BulkTier(nil), fs.BulkTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinVehicles < tiers[j].MinVehicles })
	rate := fs.StandardRate
	for _, t := range tiers {
		if vehicleCount < t.MinVehicles {
			break
		}
		rate = t.PerVehicleRate
	}
	return rate
}

// SalesTaxRate resolves the rate for a state. An unknown state yields the
// default rate together with a ConfigurationError.
func (fs FeeSchedule) SalesTaxRate(state string) (decimal.Decimal, error) {
	if rate, ok := fs.SalesTaxRates[state]; ok {
		return rate, nil
	}
	return fs.DefaultSalesTaxRate, &ConfigurationError{State: state, Fallback: fs.DefaultSalesTaxRate.String()}
}
