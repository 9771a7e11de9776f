package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of fee schedule and filing files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFeeSchedule loads a fee schedule from a YAML or JSON file. Fields the
// file leaves out keep their DefaultFeeSchedule values.
func (ip *InputParser) LoadFeeSchedule(filename string) (*domain.FeeSchedule, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseFeeSchedule(data)
}

// ParseFeeSchedule decodes and validates fee schedule content.
func (ip *InputParser) ParseFeeSchedule(data []byte) (*domain.FeeSchedule, error) {
	fees := calculation.DefaultFeeSchedule()
	if err := yaml.Unmarshal(data, &fees); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// state codes are matched upper-case
	rates := make(map[string]decimal.Decimal, len(fees.SalesTaxRates))
	for state, rate := range fees.SalesTaxRates {
		rates[strings.ToUpper(strings.TrimSpace(state))] = rate
	}
	fees.SalesTaxRates = rates

	if err := ip.ValidateFeeSchedule(&fees); err != nil {
		return nil, fmt.Errorf("fee schedule validation failed: %w", err)
	}
	return &fees, nil
}

// ValidateFeeSchedule validates the loaded fee schedule
func (ip *InputParser) ValidateFeeSchedule(fees *domain.FeeSchedule) error {
	if fees.StandardRate.LessThanOrEqual(decimal.Zero) {
		return domain.NewValidationError("standard_rate", "standard rate must be positive")
	}
	if fees.AmendmentFee.IsNegative() {
		return domain.NewValidationError("amendment_fee", "amendment fee cannot be negative")
	}
	if fees.RefundFee.IsNegative() {
		return domain.NewValidationError("refund_fee", "refund fee cannot be negative")
	}
	if err := validateSalesTaxRate("default_sales_tax_rate", fees.DefaultSalesTaxRate); err != nil {
		return err
	}
	for state, rate := range fees.SalesTaxRates {
		if len(state) != 2 {
			return domain.NewValidationError("sales_tax_rates", "state code %q must have two letters", state)
		}
		if err := validateSalesTaxRate("sales_tax_rates."+state, rate); err != nil {
			return err
		}
	}

	seen := make(map[int]bool, len(fees.BulkTiers))
	for i, tier := range fees.BulkTiers {
		if tier.MinVehicles < 2 {
			return domain.NewValidationError(fmt.Sprintf("bulk_tiers[%d].min_vehicles", i), "bulk tiers start at 2 vehicles")
		}
		if seen[tier.MinVehicles] {
			return domain.NewValidationError(fmt.Sprintf("bulk_tiers[%d].min_vehicles", i), "duplicate tier for %d vehicles", tier.MinVehicles)
		}
		seen[tier.MinVehicles] = true
		if tier.PerVehicleRate.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("bulk_tiers[%d].per_vehicle_rate", i), "per vehicle rate cannot be negative")
		}
		if tier.PerVehicleRate.GreaterThan(fees.StandardRate) {
			return domain.NewValidationError(fmt.Sprintf("bulk_tiers[%d].per_vehicle_rate", i), "per vehicle rate %s exceeds the standard rate %s",
				tier.PerVehicleRate.StringFixed(2), fees.StandardRate.StringFixed(2))
		}
	}

	return nil
}

func validateSalesTaxRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return domain.NewValidationError(field, "sales tax rate must be a fraction between 0 and 1")
	}
	return nil
}

// LoadFiling loads a filing request from a YAML or JSON file
func (ip *InputParser) LoadFiling(filename string) (*domain.FilingRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseFiling(data)
}

// ParseFiling decodes and validates filing content.
func (ip *InputParser) ParseFiling(data []byte) (*domain.FilingRequest, error) {
	var req domain.FilingRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateFiling(&req); err != nil {
		return nil, fmt.Errorf("filing validation failed: %w", err)
	}
	return &req, nil
}

// ValidateFiling validates a loaded filing request
func (ip *InputParser) ValidateFiling(req *domain.FilingRequest) error {
	if req.Intent.TaxYear < 0 {
		return domain.NewValidationError("filing.tax_year", "tax year cannot be negative")
	}
	if state := req.Locale.StateCode(); state != "" && len(state) != 2 {
		return domain.NewValidationError("locale.state", "state code %q must have two letters", req.Locale.State)
	}
	return calculation.ValidateFiling(req.Intent, req.Vehicles)
}

// CreateExampleFeeSchedule creates an example fee schedule with bulk tiers
// and a few state rates.
func (ip *InputParser) CreateExampleFeeSchedule() *domain.FeeSchedule {
	fees := calculation.DefaultFeeSchedule()
	fees.BulkTiers = []domain.BulkTier{
		{MinVehicles: 5, PerVehicleRate: decimal.RequireFromString("29.99")},
		{MinVehicles: 25, PerVehicleRate: decimal.RequireFromString("24.99")},
	}
	fees.SalesTaxRates = map[string]decimal.Decimal{
		"TX": decimal.RequireFromString("0.0625"),
		"PA": decimal.RequireFromString("0.06"),
		"WA": decimal.RequireFromString("0.065"),
	}
	return &fees
}

// CreateExampleFiling creates an example standard filing for a small fleet
func (ip *InputParser) CreateExampleFiling(taxYear int) *domain.FilingRequest {
	sold := time.Date(taxYear, time.October, 14, 0, 0, 0, 0, time.UTC)

	return &domain.FilingRequest{
		CarrierID: "1234567",
		Intent: domain.FilingIntent{
			FilingType:     domain.FilingStandard,
			FirstUsedMonth: "July",
			TaxYear:        taxYear,
		},
		Vehicles: []domain.Vehicle{
			{VIN: "1XKWD49X8NJ123456", Type: domain.VehicleTaxable, Category: domain.CategoryV, Logging: domain.NonLogging},
			{VIN: "1FUJGLDR5CLBP8834", Type: domain.VehicleTaxable, Category: "G", Logging: domain.Logging},
			{VIN: "3AKJHHDR7JSJV4471", Type: domain.VehicleSuspended, Category: domain.CategorySuspended, Agricultural: true},
			{VIN: "1M2AX07C5HM032781", Type: domain.VehicleCredit, Category: "F", Reason: domain.ReasonSold, DispositionDate: &sold},
		},
		Locale: domain.Locale{State: "TX"},
	}
}
