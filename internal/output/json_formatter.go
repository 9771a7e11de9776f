package output

import (
	json "github.com/goccy/go-json"
)

// JSONFormatter serializes the quote as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(q *Quote) ([]byte, error) {
	if q.Breakdown == nil {
		return nil, ErrEmptyQuote
	}
	return json.MarshalIndent(q, "", "  ")
}
