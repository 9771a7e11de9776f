package output

import (
	"bytes"
	"encoding/csv"
)

// CSVLinesExporter writes one row per vehicle line.
type CSVLinesExporter struct{}

func (c CSVLinesExporter) Name() string { return "csv-lines" }

func (c CSVLinesExporter) Format(q *Quote) ([]byte, error) {
	if q.Breakdown == nil {
		return nil, ErrEmptyQuote
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"VIN", "Type", "Category", "WeightRange", "Month", "Kind", "Amount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, l := range q.Breakdown.Lines {
		row := []string{
			l.VIN,
			string(l.Type),
			string(l.Category),
			l.Category.WeightRange(),
			l.Month,
			string(l.Kind),
			l.Amount.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
