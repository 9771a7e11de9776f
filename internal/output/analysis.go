package output

import (
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary holds figures derived from a breakdown for display.
type Summary struct {
	TaxableVehicles   int             `json:"taxable_vehicles"`
	SuspendedVehicles int             `json:"suspended_vehicles"`
	CreditVehicles    int             `json:"credit_vehicles"`
	FeePerVehicle     decimal.Decimal `json:"fee_per_vehicle"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	RefundDue         decimal.Decimal `json:"refund_due"`
}

// Summarize counts the lines of a breakdown by kind and splits the totals
// into what the customer pays now and what the IRS should return.
func Summarize(b *domain.PricingBreakdown) Summary {
	s := Summary{FeePerVehicle: decimal.Zero, AmountDue: decimal.Zero, RefundDue: decimal.Zero}
	if b == nil {
		return s
	}
	grossTax := decimal.Zero
	for _, l := range b.Lines {
		if l.Kind == domain.LineTax {
			grossTax = grossTax.Add(l.Amount)
		}
		switch {
		case l.Kind == domain.LineCredit:
			s.CreditVehicles++
		case l.Type == domain.VehicleSuspended:
			s.SuspendedVehicles++
		default:
			s.TaxableVehicles++
		}
	}
	if b.VehicleCount > 0 {
		s.FeePerVehicle = b.ServiceFee.Div(decimal.NewFromInt(int64(b.VehicleCount))).Round(2)
	}
	s.AmountDue = b.GrandTotal
	s.RefundDue = b.TotalRefund
	// credits beyond the tax owed are claimed back separately
	if excess := b.TotalCredits.Sub(grossTax); excess.IsPositive() {
		s.RefundDue = s.RefundDue.Add(excess)
	}
	return s
}
