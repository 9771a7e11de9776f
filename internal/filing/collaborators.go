package filing

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrCarrierNotFound is returned by a RegistryLookup for an unknown carrier.
var ErrCarrierNotFound = errors.New("carrier not found in registry")

// RegistryLookup resolves a carrier ID to its business identity. It is only
// used to pre-fill drafts and never affects pricing.
type RegistryLookup interface {
	Lookup(ctx context.Context, carrierID string) (CarrierIdentity, error)
}

// PaymentGateway charges the customer. The amount is always the grand total
// of a freshly computed breakdown.
type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (Confirmation, error)
}

// StaticRegistry is a RegistryLookup over a fixed set of identities.
type StaticRegistry map[string]CarrierIdentity

// NewStaticRegistry indexes identities by carrier ID.
func NewStaticRegistry(identities []CarrierIdentity) StaticRegistry {
	r := make(StaticRegistry, len(identities))
	for _, id := range identities {
		r[strings.TrimSpace(id.CarrierID)] = id
	}
	return r
}

func (r StaticRegistry) Lookup(ctx context.Context, carrierID string) (CarrierIdentity, error) {
	if err := ctx.Err(); err != nil {
		return CarrierIdentity{}, err
	}
	id, ok := r[strings.TrimSpace(carrierID)]
	if !ok {
		return CarrierIdentity{}, ErrCarrierNotFound
	}
	return id, nil
}
