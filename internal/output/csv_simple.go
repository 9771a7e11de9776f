package output

import (
	"bytes"
	"encoding/csv"
)

// CSVSummarizer writes one row with the breakdown totals.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(q *Quote) ([]byte, error) {
	b := q.Breakdown
	if b == nil {
		return nil, ErrEmptyQuote
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"CarrierID", "FilingType", "AmendmentType", "FirstUsedMonth", "VehicleCount", "TotalTax", "TotalCredits", "AdditionalTaxDue", "ServiceFee", "BulkSavings", "SalesTax", "CouponDiscount", "GrandTotal", "TotalRefund"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	row := []string{
		q.CarrierID,
		string(q.Intent.FilingType),
		string(q.Intent.AmendmentType),
		q.Intent.FirstUsedMonth,
		intToString(b.VehicleCount),
		b.TotalTax.StringFixed(2),
		b.TotalCredits.StringFixed(2),
		b.AdditionalTaxDue.StringFixed(2),
		b.ServiceFee.StringFixed(2),
		b.BulkSavings.StringFixed(2),
		b.SalesTax.StringFixed(2),
		b.CouponDiscount.StringFixed(2),
		b.GrandTotal.StringFixed(2),
		b.TotalRefund.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
