package calculation

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures formatted messages per level.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (r *recordingLogger) Debugf(format string, args ...any) {}
func (r *recordingLogger) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Errorf(format string, args ...any) {}

func vin(n int) string { return fmt.Sprintf("1XKWD49X8NJ%06d", n) }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testFees() domain.FeeSchedule {
	fees := DefaultFeeSchedule()
	fees.BulkTiers = []domain.BulkTier{
		{MinVehicles: 3, PerVehicleRate: dec("29.99")},
		{MinVehicles: 10, PerVehicleRate: dec("24.99")},
	}
	fees.SalesTaxRates = map[string]decimal.Decimal{"TX": dec("0.0625")}
	return fees
}

func TestCalculateFilingCost_Standard(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:     domain.FilingStandard,
		FirstUsedMonth: "August",
		Coupon:         &domain.Coupon{Type: domain.CouponPercentage, Value: dec("10")},
	}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A", Logging: domain.NonLogging},
		{VIN: vin(2), Type: domain.VehicleTaxable, Category: "C", Logging: domain.Logging},
		{VIN: vin(3), Type: domain.VehicleSuspended, Category: domain.CategorySuspended},
	}

	b, err := NewEngine(testFees()).CalculateFilingCost(intent, vehicles, domain.Locale{State: "tx"})
	require.NoError(t, err)

	assert.Equal(t, 3, b.VehicleCount)
	assert.Equal(t, "190.67", b.TotalTax.StringFixed(2)) // 91.67 + 99.00 + 0
	assert.Equal(t, "89.97", b.ServiceFee.StringFixed(2))
	assert.Equal(t, "15.00", b.BulkSavings.StringFixed(2))
	assert.Equal(t, "5.62", b.SalesTax.StringFixed(2))
	assert.Equal(t, "9.00", b.CouponDiscount.StringFixed(2))
	assert.Equal(t, "277.26", b.GrandTotal.StringFixed(2))
	assert.Equal(t, "34.99", b.StandardRate.StringFixed(2))
	assert.True(t, b.TotalRefund.IsZero())

	require.Len(t, b.Lines, 3)
	assert.Equal(t, "91.67", b.Lines[0].Amount.StringFixed(2))
	assert.Equal(t, "99.00", b.Lines[1].Amount.StringFixed(2))
	assert.Equal(t, domain.CategorySuspended, b.Lines[2].Category)
	assert.True(t, b.Lines[2].Amount.IsZero())
}

func TestCalculateFilingCost_SingleVehicleHasNoBulkDiscount(t *testing.T) {
	intent := domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"}
	vehicles := []domain.Vehicle{{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A"}}

	b, err := NewEngine(testFees()).CalculateFilingCost(intent, vehicles, domain.Locale{State: "TX"})
	require.NoError(t, err)

	assert.True(t, b.ServiceFee.Equal(b.StandardRate), "service fee %s should equal standard rate %s", b.ServiceFee, b.StandardRate)
	assert.True(t, b.BulkSavings.IsZero())
	assert.True(t, b.CouponDiscount.IsZero())
}

func TestCalculateFilingCost_CreditsReduceTax(t *testing.T) {
	intent := domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "V"},
		{VIN: vin(2), Type: domain.VehicleCredit, Category: "F", Reason: domain.ReasonSold, DispositionDate: date(2025, time.October, 14)},
		{VIN: vin(3), Type: domain.VehiclePriorYearSold, Category: domain.CategorySuspended, DispositionDate: date(2025, time.March, 2)},
	}

	b, err := CalculateFilingCost(intent, vehicles, domain.Locale{})
	require.NoError(t, err)

	assert.Equal(t, "157.50", b.TotalCredits.StringFixed(2)) // 210 * 9/12
	assert.Equal(t, "392.50", b.TotalTax.StringFixed(2))
	assert.Equal(t, "104.97", b.ServiceFee.StringFixed(2))
	assert.Equal(t, "497.47", b.GrandTotal.StringFixed(2))

	require.Len(t, b.Lines, 3)
	assert.Equal(t, domain.LineCredit, b.Lines[1].Kind)
	assert.Equal(t, "October", b.Lines[1].Month)
	assert.Equal(t, "-157.50", b.Lines[1].Amount.StringFixed(2))
	assert.Equal(t, "March", b.Lines[2].Month)
	assert.True(t, b.Lines[2].Amount.IsZero())
}

func TestCalculateFilingCost_CreditsExceedingTaxFloorAtZero(t *testing.T) {
	log := &recordingLogger{}
	engine := NewDefaultEngine()
	engine.SetLogger(log)

	intent := domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "June"}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A"},
		{VIN: vin(2), Type: domain.VehicleCredit, Category: "V", Reason: domain.ReasonDestroyed, DispositionDate: date(2025, time.July, 20)},
	}

	b, err := engine.CalculateFilingCost(intent, vehicles, domain.Locale{})
	require.NoError(t, err)
	assert.True(t, b.TotalTax.IsZero())
	assert.Equal(t, "550.00", b.TotalCredits.StringFixed(2))
	require.Len(t, log.infos, 1)
	assert.Contains(t, log.infos[0], "Form 8849")
}

func TestCalculateFilingCost_Refund(t *testing.T) {
	intent := domain.FilingIntent{FilingType: domain.FilingRefund, FirstUsedMonth: "March"}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "H", Reason: domain.ReasonStolen, DispositionDate: date(2026, time.January, 9)},
		{VIN: vin(2), Type: domain.VehicleTaxable, Category: "B", Logging: domain.Logging, Reason: domain.ReasonLowMileage},
		{VIN: vin(3), Type: domain.VehicleSuspended, Category: domain.CategorySuspended},
	}

	b, err := CalculateFilingCost(intent, vehicles, domain.Locale{State: "CA"})
	require.NoError(t, err)

	assert.Equal(t, "157.50", b.TotalRefund.StringFixed(2)) // 127.00 + 30.50 + 0
	assert.True(t, b.TotalTax.IsZero())
	assert.True(t, b.ServiceFee.IsZero())
	assert.True(t, b.GrandTotal.IsZero())
	require.Len(t, b.Lines, 3)
	assert.Equal(t, "January", b.Lines[0].Month)
	assert.Equal(t, "March", b.Lines[1].Month)
	assert.Equal(t, domain.LineRefund, b.Lines[1].Kind)
}

func TestCalculateFilingCost_RefundReasonDoesNotChangeAmount(t *testing.T) {
	base := domain.Vehicle{VIN: vin(1), Type: domain.VehicleTaxable, Category: "M", DispositionDate: date(2025, time.November, 1)}
	intent := domain.FilingIntent{FilingType: domain.FilingRefund}

	var amounts []string
	for _, reason := range []domain.CreditReason{domain.ReasonSold, domain.ReasonDestroyed, domain.ReasonStolen, domain.ReasonLowMileage} {
		v := base
		v.Reason = reason
		b, err := CalculateFilingCost(intent, []domain.Vehicle{v}, domain.Locale{})
		require.NoError(t, err)
		amounts = append(amounts, b.TotalRefund.StringFixed(2))
	}
	for _, a := range amounts {
		assert.Equal(t, "242.67", a) // 364 * 8/12
	}
}

func TestCalculateFilingCost_VINCorrection(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:    domain.FilingAmendment,
		AmendmentType: domain.AmendmentVINCorrection,
		Amendment:     &domain.AmendmentData{OriginalVIN: vin(1), CorrectedVIN: vin(2)},
	}

	for _, vehicles := range [][]domain.Vehicle{nil, {{VIN: vin(2), Type: domain.VehicleTaxable, Category: "E"}}} {
		b, err := CalculateFilingCost(intent, vehicles, domain.Locale{})
		require.NoError(t, err)
		assert.True(t, b.TotalTax.IsZero())
		assert.Equal(t, "10.00", b.ServiceFee.StringFixed(2))
		assert.Equal(t, "10.00", b.GrandTotal.StringFixed(2))
		assert.True(t, b.BulkSavings.IsZero())
	}
}

func TestCalculateFilingCost_WeightIncrease(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:     domain.FilingAmendment,
		AmendmentType:  domain.AmendmentWeightIncrease,
		FirstUsedMonth: "July",
		TaxYear:        2025,
		Amendment: &domain.AmendmentData{
			OriginalCategory: "A",
			NewCategory:      "C",
			AmendedMonth:     "September",
			OriginalLogging:  domain.NonLogging,
			NewLogging:       domain.NonLogging,
		},
	}
	vehicles := []domain.Vehicle{{VIN: vin(1), Type: domain.VehicleTaxable, Category: "C"}}

	b, err := CalculateFilingCost(intent, vehicles, domain.Locale{})
	require.NoError(t, err)
	assert.Equal(t, "44.00", b.TotalTax.StringFixed(2))
	assert.Equal(t, "44.00", b.AdditionalTaxDue.StringFixed(2))
	assert.Equal(t, "10.00", b.ServiceFee.StringFixed(2))
	assert.Equal(t, "54.00", b.GrandTotal.StringFixed(2))
	require.NotNil(t, b.DueDate)
	assert.Equal(t, "2025-10-31", b.DueDate.Format("2006-01-02"))
}

func TestCalculateFilingCost_WeightIncreaseRejectsSameCategory(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:     domain.FilingAmendment,
		AmendmentType:  domain.AmendmentWeightIncrease,
		FirstUsedMonth: "July",
		Amendment:      &domain.AmendmentData{OriginalCategory: "C", NewCategory: "C", AmendedMonth: "May"},
	}
	vehicles := []domain.Vehicle{{VIN: vin(1), Type: domain.VehicleTaxable, Category: "C"}}

	b, err := CalculateFilingCost(intent, vehicles, domain.Locale{})
	assert.Nil(t, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalculateFilingCost_MileageExceeded(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:    domain.FilingAmendment,
		AmendmentType: domain.AmendmentMileageExceeded,
		TaxYear:       2025,
		Amendment: &domain.AmendmentData{
			VehicleCategory: "G",
			FirstUsedMonth:  "August",
			Logging:         domain.NonLogging,
			ActualMileage:   5200,
			ExceededMonth:   "February",
		},
	}

	b, err := CalculateFilingCost(intent, nil, domain.Locale{})
	require.NoError(t, err)
	assert.Equal(t, "212.67", b.TotalTax.StringFixed(2))
	assert.Equal(t, "222.67", b.GrandTotal.StringFixed(2))
	assert.Equal(t, 0, b.VehicleCount)
	require.NotNil(t, b.DueDate)
	assert.Equal(t, "2026-03-31", b.DueDate.Format("2006-01-02"))

	// exceedance month never changes the amount
	intent.Amendment.ExceededMonth = "June"
	later, err := CalculateFilingCost(intent, nil, domain.Locale{})
	require.NoError(t, err)
	assert.True(t, later.TotalTax.Equal(b.TotalTax))
}

func TestCalculateFilingCost_MileageBelowAgriculturalLimit(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:    domain.FilingAmendment,
		AmendmentType: domain.AmendmentMileageExceeded,
		Amendment: &domain.AmendmentData{
			VehicleCategory: "G",
			FirstUsedMonth:  "August",
			ActualMileage:   6000,
			Agricultural:    true,
		},
	}

	_, err := CalculateFilingCost(intent, nil, domain.Locale{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7500 mile limit")
}

func TestCalculateFilingCost_FixedCouponCappedAtFee(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:    domain.FilingAmendment,
		AmendmentType: domain.AmendmentVINCorrection,
		Amendment:     &domain.AmendmentData{OriginalVIN: vin(1), CorrectedVIN: vin(2)},
		Coupon:        &domain.Coupon{Code: "FREEFIX", Type: domain.CouponFixed, Value: dec("50")},
	}

	b, err := CalculateFilingCost(intent, nil, domain.Locale{})
	require.NoError(t, err)
	assert.Equal(t, "10.00", b.CouponDiscount.StringFixed(2))
	assert.True(t, b.GrandTotal.IsZero())
}

func TestCalculateFilingCost_CouponNeverTouchesTax(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:     domain.FilingStandard,
		FirstUsedMonth: "July",
		Coupon:         &domain.Coupon{Type: domain.CouponPercentage, Value: dec("100")},
	}
	vehicles := []domain.Vehicle{{VIN: vin(1), Type: domain.VehicleTaxable, Category: "V"}}

	b, err := CalculateFilingCost(intent, vehicles, domain.Locale{})
	require.NoError(t, err)
	assert.Equal(t, "34.99", b.CouponDiscount.StringFixed(2))
	assert.Equal(t, "550.00", b.GrandTotal.StringFixed(2))
}

func TestCalculateFilingCost_UnknownStateFallsBack(t *testing.T) {
	log := &recordingLogger{}
	fees := testFees()
	fees.DefaultSalesTaxRate = dec("0.05")
	engine := NewEngine(fees)
	engine.SetLogger(log)

	intent := domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"}
	vehicles := []domain.Vehicle{{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A"}}

	b, err := engine.CalculateFilingCost(intent, vehicles, domain.Locale{State: "ZZ"})
	require.NoError(t, err)
	assert.Equal(t, "0.05", b.SalesTaxRate.String())
	assert.Equal(t, "1.75", b.SalesTax.StringFixed(2)) // 34.99 * 0.05
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], `"ZZ"`)
}

func TestCalculateFilingCost_CustomBulkRate(t *testing.T) {
	engine := NewDefaultEngine()
	engine.BulkRate = func(count int) decimal.Decimal {
		if count >= 2 {
			return dec("30.00")
		}
		return dec("34.99")
	}

	intent := domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A"},
		{VIN: vin(2), Type: domain.VehicleTaxable, Category: "A"},
	}

	b, err := engine.CalculateFilingCost(intent, vehicles, domain.Locale{})
	require.NoError(t, err)
	assert.Equal(t, "60.00", b.ServiceFee.StringFixed(2))
	assert.Equal(t, "9.98", b.BulkSavings.StringFixed(2))
}

func TestCalculateFilingCost_Deterministic(t *testing.T) {
	intent := domain.FilingIntent{
		FilingType:     domain.FilingStandard,
		FirstUsedMonth: "November",
		Coupon:         &domain.Coupon{Type: domain.CouponFixed, Value: dec("5")},
	}
	vehicles := []domain.Vehicle{
		{VIN: vin(1), Type: domain.VehicleTaxable, Category: "Q", Logging: domain.Logging},
		{VIN: vin(2), Type: domain.VehicleSuspended, Category: "D", Agricultural: true},
		{VIN: vin(3), Type: domain.VehicleTaxable, Category: "T"},
	}
	engine := NewEngine(testFees())

	first, err := engine.CalculateFilingCost(intent, vehicles, domain.Locale{State: "TX"})
	require.NoError(t, err)
	a, err := json.Marshal(first)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := engine.CalculateFilingCost(intent, vehicles, domain.Locale{State: "TX"})
			if err != nil {
				return
			}
			results[i], _ = json.Marshal(b)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, string(a), string(r))
	}
}

func TestCalculateFilingCost_ValidationErrors(t *testing.T) {
	taxable := domain.Vehicle{VIN: vin(1), Type: domain.VehicleTaxable, Category: "A"}

	tests := []struct {
		name        string
		intent      domain.FilingIntent
		vehicles    []domain.Vehicle
		expectError string
	}{
		{
			name:        "Unknown filing type",
			intent:      domain.FilingIntent{FilingType: "extension", FirstUsedMonth: "July"},
			vehicles:    []domain.Vehicle{taxable},
			expectError: "unknown filing type",
		},
		{
			name:        "Standard without vehicles",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"},
			expectError: "at least one vehicle",
		},
		{
			name:        "Refund without vehicles",
			intent:      domain.FilingIntent{FilingType: domain.FilingRefund, FirstUsedMonth: "July"},
			expectError: "at least one vehicle",
		},
		{
			name:        "Invalid month",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "Thermidor"},
			vehicles:    []domain.Vehicle{taxable},
			expectError: "invalid month",
		},
		{
			name:        "Short VIN",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"},
			vehicles:    []domain.Vehicle{{VIN: "SHORT", Type: domain.VehicleTaxable, Category: "A"}},
			expectError: "vehicle 1: vin",
		},
		{
			name:        "Duplicate VIN",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July"},
			vehicles:    []domain.Vehicle{taxable, taxable},
			expectError: "repeats the VIN",
		},
		{
			name:        "Unknown amendment type",
			intent:      domain.FilingIntent{FilingType: domain.FilingAmendment, AmendmentType: "name_change", Amendment: &domain.AmendmentData{}},
			expectError: "unknown amendment type",
		},
		{
			name:        "Missing amendment details",
			intent:      domain.FilingIntent{FilingType: domain.FilingAmendment, AmendmentType: domain.AmendmentVINCorrection},
			expectError: "details are required",
		},
		{
			name: "Identical corrected VIN",
			intent: domain.FilingIntent{FilingType: domain.FilingAmendment, AmendmentType: domain.AmendmentVINCorrection,
				Amendment: &domain.AmendmentData{OriginalVIN: vin(1), CorrectedVIN: vin(1)}},
			expectError: "matches the original",
		},
		{
			name: "Weight increase without vehicle",
			intent: domain.FilingIntent{FilingType: domain.FilingAmendment, AmendmentType: domain.AmendmentWeightIncrease, FirstUsedMonth: "July",
				Amendment: &domain.AmendmentData{OriginalCategory: "A", NewCategory: "C", AmendedMonth: "May"}},
			expectError: "needs the affected vehicle",
		},
		{
			name:        "Percentage coupon over 100",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July", Coupon: &domain.Coupon{Type: domain.CouponPercentage, Value: dec("150")}},
			vehicles:    []domain.Vehicle{taxable},
			expectError: "cannot exceed 100",
		},
		{
			name:        "Negative coupon",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July", Coupon: &domain.Coupon{Type: domain.CouponFixed, Value: dec("-1")}},
			vehicles:    []domain.Vehicle{taxable},
			expectError: "cannot be negative",
		},
		{
			name:        "Unknown coupon type",
			intent:      domain.FilingIntent{FilingType: domain.FilingStandard, FirstUsedMonth: "July", Coupon: &domain.Coupon{Type: "bogo", Value: dec("1")}},
			vehicles:    []domain.Vehicle{taxable},
			expectError: "unknown coupon type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := CalculateFilingCost(tt.intent, tt.vehicles, domain.Locale{})
			assert.Nil(t, b)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}
