package output

import (
	"fmt"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultNotes lists the pricing rules rendered under every quote.
var DefaultNotes = []string{
	"Tax period runs July 1 through June 30; tax is prorated by months remaining from the first-used month",
	"Logging vehicles pay 75% of the standard rate",
	"Suspended vehicles (category W) owe no tax",
	"Sales tax and coupons apply to the service fee only",
}

// GenerateNotes creates the note list for a quote from its intent and breakdown.
func GenerateNotes(q *Quote) []string {
	notes := append([]string(nil), DefaultNotes...)
	b := q.Breakdown
	if b == nil {
		return notes
	}
	if !b.SalesTaxRate.IsZero() {
		notes = append(notes, fmt.Sprintf("Sales tax rate for %s: %s", stateLabel(q.Locale), FormatPercentage(b.SalesTaxRate.Mul(decimalHundred))))
	}
	if b.BulkSavings.IsPositive() {
		notes = append(notes, fmt.Sprintf("Bulk pricing saved %s on service fees", FormatCurrency(b.BulkSavings)))
	}
	if q.Summary.RefundDue.IsPositive() && q.Intent.FilingType == domain.FilingStandard {
		notes = append(notes, fmt.Sprintf("Credits exceed tax by %s; claim the excess on Form 8849", FormatCurrency(q.Summary.RefundDue)))
	}
	if b.DueDate != nil {
		notes = append(notes, fmt.Sprintf("Amendment is due by %s", b.DueDate.Format("January 2, 2006")))
	}
	return notes
}

func stateLabel(l domain.Locale) string {
	if s := l.StateCode(); s != "" {
		return s
	}
	return "default locale"
}

var decimalHundred = decimal.NewFromInt(100)
