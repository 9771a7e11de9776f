package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
)

// HTMLFormatter produces a printable HTML receipt for a quote.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/quote.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("quote").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"label":  filingLabel,
	"weight": func(c domain.WeightCategory) string { return c.WeightRange() },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(q *Quote) ([]byte, error) {
	if q.Breakdown == nil {
		return nil, ErrEmptyQuote
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, q); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
