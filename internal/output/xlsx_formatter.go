package output

import (
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSummarySheet = "Quote"
	xlsxLinesSheet   = "Lines"
)

// XLSXFormatter writes a workbook with a totals sheet and a per-vehicle sheet.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(q *Quote) ([]byte, error) {
	b := q.Breakdown
	if b == nil {
		return nil, ErrEmptyQuote
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSummarySheet); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, err
	}

	amount := func(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }
	summary := [][]interface{}{
		{"Filing", filingLabel(q.Intent)},
		{"Carrier", q.CarrierID},
		{"First used", q.Intent.FirstUsedMonth},
		{"Vehicles", b.VehicleCount},
		{"Total tax", amount(b.TotalTax)},
		{"Credits applied", amount(b.TotalCredits)},
		{"Additional tax due", amount(b.AdditionalTaxDue)},
		{"Service fee", amount(b.ServiceFee)},
		{"Bulk savings", amount(b.BulkSavings)},
		{"Sales tax", amount(b.SalesTax)},
		{"Coupon discount", amount(b.CouponDiscount)},
		{"Grand total", amount(b.GrandTotal)},
		{"Expected refund", amount(q.Summary.RefundDue)},
	}
	if b.DueDate != nil {
		summary = append(summary, []interface{}{"Due date", b.DueDate.Format("2006-01-02")})
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSummarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(xlsxSummarySheet, "B5", "B13", money); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(xlsxLinesSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"VIN", "Type", "Category", "WeightRange", "Month", "Kind", "Amount"}
	if err := f.SetSheetRow(xlsxLinesSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, l := range b.Lines {
		row := []interface{}{l.VIN, string(l.Type), string(l.Category), l.Category.WeightRange(), l.Month, string(l.Kind), amount(l.Amount)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxLinesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if n := len(b.Lines); n > 0 {
		last, err := excelize.CoordinatesToCellName(7, n+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(xlsxLinesSheet, "G2", last, money); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
