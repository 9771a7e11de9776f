package output_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/rootlocus22/trucktax-app-sub002/internal/output"
	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refundQuote() *output.Quote {
	return output.NewQuote(&domain.FilingRequest{
		Intent: domain.FilingIntent{FilingType: domain.FilingRefund},
	}, &domain.PricingBreakdown{
		TotalTax:     stddec.Zero,
		TotalCredits: stddec.Zero,
		ServiceFee:   stddec.Zero,
		GrandTotal:   stddec.Zero,
		TotalRefund:  stddec.RequireFromString("127.00"),
		VehicleCount: 1,
		Lines: []domain.VehicleLine{
			{VIN: "1XKWD49X8NJ123456", Type: domain.VehicleTaxable, Category: "H", Month: "January", Kind: domain.LineRefund, Amount: stddec.RequireFromString("127.00")},
		},
	})
}

func TestRenderQuote_UnsupportedFormat(t *testing.T) {
	_, err := output.RenderQuote(refundQuote(), "pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "console, csv, csv-lines, html, json, xlsx")
}

func TestWriteQuote(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteQuote(&buf, refundQuote(), "text"))
	assert.Contains(t, buf.String(), "Expected refund:")
	assert.Contains(t, buf.String(), "$127.00")
}

func TestGenerateReport(t *testing.T) {
	dir := t.TempDir()

	path, err := output.GenerateReport(refundQuote(), "csv-summary", dir)
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	path, err = output.GenerateReport(refundQuote(), "console", dir)
	require.NoError(t, err)
	assert.Equal(t, ".txt", filepath.Ext(path))

	path, err = output.GenerateReport(refundQuote(), "excel", dir)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	_, err = output.GenerateReport(refundQuote(), "pdf", dir)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestSummarize(t *testing.T) {
	s := output.Summarize(&domain.PricingBreakdown{
		TotalTax:     stddec.Zero,
		TotalCredits: stddec.RequireFromString("550.00"),
		ServiceFee:   stddec.RequireFromString("69.98"),
		GrandTotal:   stddec.RequireFromString("69.98"),
		TotalRefund:  stddec.Zero,
		VehicleCount: 2,
		Lines: []domain.VehicleLine{
			{Type: domain.VehicleTaxable, Kind: domain.LineTax, Amount: stddec.RequireFromString("8.33")},
			{Type: domain.VehicleCredit, Kind: domain.LineCredit, Amount: stddec.RequireFromString("-550.00")},
		},
	})

	assert.Equal(t, 1, s.TaxableVehicles)
	assert.Equal(t, 1, s.CreditVehicles)
	assert.Equal(t, "34.99", s.FeePerVehicle.StringFixed(2))
	assert.Equal(t, "541.67", s.RefundDue.StringFixed(2))

	empty := output.Summarize(nil)
	assert.True(t, empty.AmountDue.IsZero())
}
