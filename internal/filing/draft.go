package filing

import (
	"time"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

// Status tracks a draft through checkout.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusPaymentPending Status = "payment_pending"
	StatusPaid           Status = "paid"
	StatusSubmitted      Status = "submitted"
	StatusPaymentFailed  Status = "payment_failed"
)

// Closed reports whether the draft can no longer be changed or charged.
func (s Status) Closed() bool {
	return s == StatusPaid || s == StatusSubmitted
}

// CarrierIdentity is the business identity returned by the registry.
type CarrierIdentity struct {
	CarrierID  string `yaml:"carrier_id" json:"carrier_id"`
	LegalName  string `yaml:"legal_name" json:"legal_name"`
	EIN        string `yaml:"ein" json:"ein"`
	Address    string `yaml:"address" json:"address"`
	EntityType string `yaml:"entity_type" json:"entity_type"`
}

// Confirmation is the gateway's record of a charge.
type Confirmation struct {
	ID       string          `json:"id"`
	Provider string          `json:"provider"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
}

// Draft is a persisted filing. Request is canonical; Breakdown is the last
// computed view of it and is recomputed before any charge.
type Draft struct {
	ID        string                   `json:"id"`
	Request   domain.FilingRequest     `json:"request"`
	Breakdown *domain.PricingBreakdown `json:"breakdown,omitempty"`
	Identity  *CarrierIdentity         `json:"identity,omitempty"`
	Payment   *Confirmation            `json:"payment,omitempty"`
	Status    Status                   `json:"status"`
	LastError string                   `json:"last_error,omitempty"`
	// ChargeAttempts counts checkouts that reached the gateway. Together
	// with the draft ID it keys the charge, so resuming a pending payment
	// replays the same request.
	ChargeAttempts int       `json:"charge_attempts,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
