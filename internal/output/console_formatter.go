package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
)

// ConsoleFormatter renders a plain text quote.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(q *Quote) ([]byte, error) {
	b := q.Breakdown
	if b == nil {
		return nil, ErrEmptyQuote
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FORM 2290 FILING QUOTE")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Filing: %s\n", filingLabel(q.Intent))
	if q.CarrierID != "" {
		fmt.Fprintf(&buf, "Carrier: %s\n", q.CarrierID)
	}
	if q.Intent.FirstUsedMonth != "" {
		fmt.Fprintf(&buf, "First used: %s\n", q.Intent.FirstUsedMonth)
	}
	fmt.Fprintln(&buf)

	if len(b.Lines) > 0 {
		fmt.Fprintf(&buf, "%-17s  %-15s  %-3s  %-9s  %-6s  %12s\n", "VIN", "TYPE", "CAT", "MONTH", "KIND", "AMOUNT")
		fmt.Fprintln(&buf, strings.Repeat("-", 72))
		for _, l := range b.Lines {
			fmt.Fprintf(&buf, "%-17s  %-15s  %-3s  %-9s  %-6s  %12s\n", l.VIN, l.Type, l.Category, l.Month, l.Kind, FormatCurrency(l.Amount))
		}
		fmt.Fprintln(&buf)
	}

	row := func(label string, v string) { fmt.Fprintf(&buf, "%-20s %12s\n", label, v) }
	row("Total tax:", FormatCurrency(b.TotalTax))
	if b.TotalCredits.IsPositive() {
		row("Credits applied:", FormatCurrency(b.TotalCredits))
	}
	if b.AdditionalTaxDue.IsPositive() {
		row("Additional tax due:", FormatCurrency(b.AdditionalTaxDue))
	}
	row("Service fee:", FormatCurrency(b.ServiceFee))
	if b.BulkSavings.IsPositive() {
		row("Bulk savings:", FormatCurrency(b.BulkSavings))
	}
	row("Sales tax:", FormatCurrency(b.SalesTax))
	if b.CouponDiscount.IsPositive() {
		row("Coupon discount:", FormatCurrency(b.CouponDiscount.Neg()))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 33))
	row("Grand total:", FormatCurrency(b.GrandTotal))
	if q.Summary.RefundDue.IsPositive() {
		row("Expected refund:", FormatCurrency(q.Summary.RefundDue))
	}
	if b.DueDate != nil {
		row("Due date:", b.DueDate.Format("2006-01-02"))
	}

	if len(q.Notes) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "NOTES:")
		for _, n := range q.Notes {
			fmt.Fprintf(&buf, "• %s\n", n)
		}
	}
	return buf.Bytes(), nil
}

func filingLabel(intent domain.FilingIntent) string {
	if intent.FilingType == domain.FilingAmendment && intent.AmendmentType != "" {
		return fmt.Sprintf("%s (%s)", intent.FilingType, intent.AmendmentType)
	}
	return string(intent.FilingType)
}
