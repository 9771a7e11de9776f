package calculation

import (
	"fmt"
	"strings"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateFiling checks the filing intent and vehicle list before pricing.
func ValidateFiling(intent domain.FilingIntent, vehicles []domain.Vehicle) error {
	if !intent.FilingType.Valid() {
		return domain.NewValidationError("filing_type", "unknown filing type %q", intent.FilingType)
	}

	seen := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vehicle %d: %w", i+1, err)
		}
		vin := strings.ToUpper(strings.TrimSpace(v.VIN))
		if prev, dup := seen[vin]; dup {
			return domain.NewValidationError("vin", "vehicle %d repeats the VIN of vehicle %d", i+1, prev)
		}
		seen[vin] = i + 1
	}

	switch intent.FilingType {
	case domain.FilingStandard:
		if len(vehicles) == 0 {
			return domain.NewValidationError("vehicles", "a standard filing needs at least one vehicle")
		}
		if _, err := parseMonth("first_used_month", intent.FirstUsedMonth); err != nil {
			return err
		}
	case domain.FilingRefund:
		if len(vehicles) == 0 {
			return domain.NewValidationError("vehicles", "a refund claim needs at least one vehicle")
		}
	case domain.FilingAmendment:
		if err := validateAmendment(intent, vehicles); err != nil {
			return err
		}
	}

	return ValidateCoupon(intent.Coupon)
}

func validateAmendment(intent domain.FilingIntent, vehicles []domain.Vehicle) error {
	if !intent.AmendmentType.Valid() {
		return domain.NewValidationError("amendment_type", "unknown amendment type %q", intent.AmendmentType)
	}
	a := intent.Amendment
	if a == nil {
		return domain.NewValidationError("amendment", "%s amendment details are required", intent.AmendmentType)
	}
	switch intent.AmendmentType {
	case domain.AmendmentVINCorrection:
		if err := domain.ValidateVIN(a.OriginalVIN); err != nil {
			return fmt.Errorf("original_vin: %w", err)
		}
		if err := domain.ValidateVIN(a.CorrectedVIN); err != nil {
			return fmt.Errorf("corrected_vin: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(a.OriginalVIN), strings.TrimSpace(a.CorrectedVIN)) {
			return domain.NewValidationError("corrected_vin", "corrected VIN matches the original")
		}
	case domain.AmendmentWeightIncrease:
		if len(vehicles) == 0 {
			return domain.NewValidationError("vehicles", "a weight increase amendment needs the affected vehicle")
		}
	}
	return nil
}

// ValidateCoupon checks a coupon's type and value. A nil coupon is valid.
func ValidateCoupon(c *domain.Coupon) error {
	if c == nil {
		return nil
	}
	if c.Value.IsNegative() {
		return domain.NewValidationError("coupon.value", "coupon value cannot be negative")
	}
	switch c.Type {
	case domain.CouponPercentage:
		if c.Value.GreaterThan(hundred) {
			return domain.NewValidationError("coupon.value", "percentage coupon cannot exceed 100")
		}
	case domain.CouponFixed:
	default:
		return domain.NewValidationError("coupon.type", "unknown coupon type %q", c.Type)
	}
	return nil
}
