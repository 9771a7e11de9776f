package output

import (
	"errors"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
)

// ErrEmptyQuote is returned when a quote without a breakdown is rendered.
var ErrEmptyQuote = errors.New("quote has no breakdown")

// Quote is the renderable view of a priced filing.
type Quote struct {
	CarrierID string                   `json:"carrier_id,omitempty"`
	Intent    domain.FilingIntent      `json:"filing"`
	Locale    domain.Locale            `json:"locale"`
	Breakdown *domain.PricingBreakdown `json:"breakdown"`
	Summary   Summary                  `json:"summary"`
	Notes     []string                 `json:"notes,omitempty"`
}

// NewQuote builds a quote from a filing request and its breakdown.
func NewQuote(req *domain.FilingRequest, b *domain.PricingBreakdown) *Quote {
	q := &Quote{
		CarrierID: req.CarrierID,
		Intent:    req.Intent,
		Locale:    req.Locale,
		Breakdown: b,
	}
	q.Summary = Summarize(b)
	q.Notes = GenerateNotes(q)
	return q
}
