package calculation

import (
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	money "github.com/rootlocus22/trucktax-app-sub002/pkg/decimal"
	"github.com/rootlocus22/trucktax-app-sub002/pkg/taxyear"
	"github.com/shopspring/decimal"
)

// DefaultFeeSchedule returns the built-in business constants: $34.99 per
// vehicle, a flat $10.00 amendment fee, no refund fee, no bulk tiers and a
// zero default sales tax rate. Deployments override it with a fee file.
func DefaultFeeSchedule() domain.FeeSchedule {
	return domain.FeeSchedule{
		StandardRate:        decimal.RequireFromString("34.99"),
		AmendmentFee:        decimal.RequireFromString("10.00"),
		RefundFee:           decimal.Zero,
		SalesTaxRates:       map[string]decimal.Decimal{},
		DefaultSalesTaxRate: decimal.Zero,
	}
}

// BulkRateFunc returns the per-vehicle service fee for a filing of vehicleCount vehicles.
type BulkRateFunc func(vehicleCount int) decimal.Decimal

// Engine prices filings. It holds no mutable state once built and is safe
// for concurrent use.
type Engine struct {
	Fees     domain.FeeSchedule
	BulkRate BulkRateFunc // nil uses Fees.PerVehicleRate
	Logger   Logger
}

// NewEngine creates an engine for the given fee schedule.
func NewEngine(fees domain.FeeSchedule) *Engine {
	return &Engine{Fees: fees, Logger: NopLogger{}}
}

// NewDefaultEngine creates an engine with DefaultFeeSchedule.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultFeeSchedule())
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) log() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// CalculateFilingCost prices a filing with the default fee schedule.
func CalculateFilingCost(intent domain.FilingIntent, vehicles []domain.Vehicle, locale domain.Locale) (*domain.PricingBreakdown, error) {
	return NewDefaultEngine().CalculateFilingCost(intent, vehicles, locale)
}

// CalculateFilingCost combines the vehicles of a filing into tax, service fee,
// sales tax and coupon discount. The same inputs always yield the same result.
func (e *Engine) CalculateFilingCost(intent domain.FilingIntent, vehicles []domain.Vehicle, locale domain.Locale) (*domain.PricingBreakdown, error) {
	if err := ValidateFiling(intent, vehicles); err != nil {
		return nil, err
	}

	b := &domain.PricingBreakdown{
		TotalTax:         decimal.Zero,
		TotalCredits:     decimal.Zero,
		AdditionalTaxDue: decimal.Zero,
		ServiceFee:       decimal.Zero,
		SalesTax:         decimal.Zero,
		CouponDiscount:   decimal.Zero,
		TotalRefund:      decimal.Zero,
		BulkSavings:      decimal.Zero,
		VehicleCount:     len(vehicles),
		StandardRate:     e.Fees.StandardRate,
	}

	var err error
	switch intent.FilingType {
	case domain.FilingStandard:
		err = e.priceStandard(intent, vehicles, b)
	case domain.FilingAmendment:
		err = e.priceAmendment(intent, b)
	case domain.FilingRefund:
		err = e.priceRefund(intent, vehicles, b)
	}
	if err != nil {
		return nil, err
	}

	e.applySalesTax(locale, b)
	b.CouponDiscount = couponDiscount(intent.Coupon, b.ServiceFee)
	b.GrandTotal = b.TotalTax.Add(b.ServiceFee).Add(b.SalesTax).Sub(b.CouponDiscount)

	e.log().Debugf("priced %s filing: vehicles=%d tax=%s fee=%s sales_tax=%s discount=%s total=%s",
		intent.FilingType, b.VehicleCount, b.TotalTax.StringFixed(2), b.ServiceFee.StringFixed(2),
		b.SalesTax.StringFixed(2), b.CouponDiscount.StringFixed(2), b.GrandTotal.StringFixed(2))
	return b, nil
}

func (e *Engine) perVehicleRate(count int) decimal.Decimal {
	if e.BulkRate != nil {
		return e.BulkRate(count)
	}
	return e.Fees.PerVehicleRate(count)
}

func (e *Engine) priceStandard(intent domain.FilingIntent, vehicles []domain.Vehicle, b *domain.PricingBreakdown) error {
	taxes := decimal.Zero
	credits := decimal.Zero
	for _, v := range vehicles {
		line := domain.VehicleLine{VIN: v.VIN, Type: v.Type, Category: v.DisplayCategory(), Month: intent.FirstUsedMonth, Kind: domain.LineTax, Amount: decimal.Zero}
		switch v.Type {
		case domain.VehicleTaxable, domain.VehicleSuspended:
			amount, err := TaxForVehicle(v.Category, v.Logging, intent.FirstUsedMonth, v.Type == domain.VehicleSuspended)
			if err != nil {
				return err
			}
			line.Amount = amount
			taxes = taxes.Add(amount)
		case domain.VehicleCredit:
			month := v.DispositionDate.Month().String()
			amount, err := refundAmount(v.Category, v.Logging, false, month)
			if err != nil {
				return err
			}
			line.Month = month
			line.Kind = domain.LineCredit
			line.Amount = amount.Neg()
			credits = credits.Add(amount)
		case domain.VehiclePriorYearSold:
			line.Month = v.DispositionDate.Month().String()
			line.Kind = domain.LineCredit
		}
		b.Lines = append(b.Lines, line)
	}

	b.TotalCredits = credits
	b.TotalTax = decimal.Max(decimal.Zero, taxes.Sub(credits))
	if credits.GreaterThan(taxes) {
		e.log().Infof("credits %s exceed tax %s; excess is claimable on Form 8849", credits.StringFixed(2), taxes.StringFixed(2))
	}

	count := decimal.NewFromInt(int64(len(vehicles)))
	b.ServiceFee = e.perVehicleRate(len(vehicles)).Mul(count).Round(2)
	b.BulkSavings = decimal.Max(decimal.Zero, e.Fees.StandardRate.Mul(count).Round(2).Sub(b.ServiceFee))
	return nil
}

func (e *Engine) priceAmendment(intent domain.FilingIntent, b *domain.PricingBreakdown) error {
	b.ServiceFee = e.Fees.AmendmentFee.Round(2)
	a := intent.Amendment
	firstUsed := a.FirstUsedMonth
	if firstUsed == "" {
		firstUsed = intent.FirstUsedMonth
	}

	switch intent.AmendmentType {
	case domain.AmendmentVINCorrection:
		return nil
	case domain.AmendmentWeightIncrease:
		extra, err := WeightIncreaseAdditionalTax(a.OriginalCategory, a.NewCategory, a.AmendedMonth, firstUsed, a.OriginalLogging, a.NewLogging)
		if err != nil {
			return err
		}
		b.TotalTax = extra
		b.AdditionalTaxDue = extra
		setDueDate(b, intent.TaxYear, a.AmendedMonth)
	case domain.AmendmentMileageExceeded:
		if err := ValidateMileageExceeded(a.ActualMileage, a.Agricultural); err != nil {
			return err
		}
		tax, err := MileageExceededTax(a.VehicleCategory, firstUsed, a.Logging)
		if err != nil {
			return err
		}
		b.TotalTax = tax
		b.AdditionalTaxDue = tax
		if a.ExceededMonth != "" {
			if _, err := parseMonth("exceeded_month", a.ExceededMonth); err != nil {
				return err
			}
			setDueDate(b, intent.TaxYear, a.ExceededMonth)
		}
	}
	return nil
}

// setDueDate records the amendment deadline when the tax period is known.
// month has already been validated.
func setDueDate(b *domain.PricingBreakdown, taxYear int, month string) {
	if taxYear <= 0 {
		return
	}
	m, _ := taxyear.ParseMonth(month)
	due := taxyear.DueDate(taxYear, m)
	b.DueDate = &due
}

func (e *Engine) priceRefund(intent domain.FilingIntent, vehicles []domain.Vehicle, b *domain.PricingBreakdown) error {
	total := decimal.Zero
	for _, v := range vehicles {
		month := intent.FirstUsedMonth
		if v.DispositionDate != nil && !v.DispositionDate.IsZero() {
			month = v.DispositionDate.Month().String()
		}
		suspended := v.Type == domain.VehicleSuspended || v.Type == domain.VehiclePriorYearSold
		amount, err := refundAmount(v.Category, v.Logging, suspended, month)
		if err != nil {
			return err
		}
		b.Lines = append(b.Lines, domain.VehicleLine{VIN: v.VIN, Type: v.Type, Category: v.DisplayCategory(), Month: month, Kind: domain.LineRefund, Amount: amount})
		total = total.Add(amount)
	}
	b.TotalRefund = total
	b.ServiceFee = e.Fees.RefundFee.Round(2)
	return nil
}

func (e *Engine) applySalesTax(locale domain.Locale, b *domain.PricingBreakdown) {
	rate, err := e.Fees.SalesTaxRate(locale.StateCode())
	if err != nil {
		e.log().Warnf("%v", err)
	}
	b.SalesTaxRate = rate
	b.SalesTax = b.ServiceFee.Mul(rate).Round(2)
}

// couponDiscount applies a coupon to the service fee only.
func couponDiscount(c *domain.Coupon, fee decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch c.Type {
	case domain.CouponPercentage:
		return decimal.Min(fee, money.NewMoneyFromDecimal(fee).Percent(c.Value).Decimal)
	case domain.CouponFixed:
		return decimal.Min(c.Value, fee).Round(2)
	}
	return decimal.Zero
}
