package calculation

import (
	"time"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	money "github.com/rootlocus22/trucktax-app-sub002/pkg/decimal"
	"github.com/rootlocus22/trucktax-app-sub002/pkg/taxyear"
	"github.com/shopspring/decimal"
)

// Annual mileage limits for suspended vehicles.
const (
	MileageThresholdStandard     = 5000
	MileageThresholdAgricultural = 7500
)

func parseMonth(field, s string) (time.Month, error) {
	m, err := taxyear.ParseMonth(s)
	if err != nil {
		return 0, domain.NewValidationError(field, "invalid month %q", s)
	}
	return m, nil
}

// proratedTax is the annual rate scaled to the months from m through June.
func proratedTax(category domain.WeightCategory, logging domain.LoggingStatus, m time.Month) (decimal.Decimal, error) {
	annual, err := AnnualRate(category, logging)
	if err != nil {
		return decimal.Zero, err
	}
	return money.NewMoneyFromDecimal(annual).Prorate(taxyear.MonthsRemaining(m)).Decimal, nil
}

// TaxForVehicle returns the tax owed for one vehicle first used in
// firstUsedMonth. Suspended vehicles owe nothing regardless of category.
func TaxForVehicle(category domain.WeightCategory, logging domain.LoggingStatus, firstUsedMonth string, isSuspended bool) (decimal.Decimal, error) {
	if !category.Valid() {
		return decimal.Zero, domain.NewValidationError("category", "unknown weight category %q", category)
	}
	m, err := parseMonth("first_used_month", firstUsedMonth)
	if err != nil {
		return decimal.Zero, err
	}
	if isSuspended {
		return decimal.Zero, nil
	}
	return proratedTax(category, logging, m)
}

// RefundForVehicle returns the tax attributable to the unused part of the
// period, from the disposition month through June, on the standard table.
// The claim reason never changes the amount.
func RefundForVehicle(category domain.WeightCategory, isSuspended bool, month string) (decimal.Decimal, error) {
	return refundAmount(category, domain.LoggingUnspecified, isSuspended, month)
}

func refundAmount(category domain.WeightCategory, logging domain.LoggingStatus, isSuspended bool, month string) (decimal.Decimal, error) {
	return TaxForVehicle(category, logging, month, isSuspended)
}

// WeightIncreaseAdditionalTax returns the extra tax due when a vehicle moves to
// a heavier category. Both amounts are prorated from the original first-used
// month; amendedMonth only sets the due date.
func WeightIncreaseAdditionalTax(original, updated domain.WeightCategory, amendedMonth, firstUsedMonth string, originalLogging, newLogging domain.LoggingStatus) (decimal.Decimal, error) {
	if err := ValidateWeightIncrease(original, updated); err != nil {
		return decimal.Zero, err
	}
	if _, err := parseMonth("amended_month", amendedMonth); err != nil {
		return decimal.Zero, err
	}
	oldTax, err := TaxForVehicle(original, originalLogging, firstUsedMonth, false)
	if err != nil {
		return decimal.Zero, err
	}
	newTax, err := TaxForVehicle(updated, newLogging, firstUsedMonth, false)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(decimal.Zero, newTax.Sub(oldTax)), nil
}

// ValidateWeightIncrease requires two taxable categories with the new one
// strictly heavier.
func ValidateWeightIncrease(original, updated domain.WeightCategory) error {
	if !original.Taxable() {
		return domain.NewValidationError("original_category", "%q is not a taxable weight category", original)
	}
	if !updated.Taxable() {
		return domain.NewValidationError("new_category", "%q is not a taxable weight category", updated)
	}
	if !updated.HeavierThan(original) {
		return domain.NewValidationError("new_category", "category %s is not heavier than %s", updated, original)
	}
	return nil
}

// MileageExceededTax returns the tax owed once a suspended vehicle passes its
// mileage limit: the full prorated tax from the original first-used month.
func MileageExceededTax(category domain.WeightCategory, firstUsedMonth string, logging domain.LoggingStatus) (decimal.Decimal, error) {
	if !category.Taxable() {
		return decimal.Zero, domain.NewValidationError("vehicle_category", "%q is not a taxable weight category", category)
	}
	return TaxForVehicle(category, logging, firstUsedMonth, false)
}

// MileageThreshold returns the annual suspension limit.
func MileageThreshold(agricultural bool) int {
	if agricultural {
		return MileageThresholdAgricultural
	}
	return MileageThresholdStandard
}

// ValidateMileageExceeded checks that the reported mileage really exceeds the limit.
func ValidateMileageExceeded(actualMileage int, agricultural bool) error {
	limit := MileageThreshold(agricultural)
	if actualMileage <= limit {
		return domain.NewValidationError("actual_mileage", "%d miles does not exceed the %d mile limit", actualMileage, limit)
	}
	return nil
}
