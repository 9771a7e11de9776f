package filing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rootlocus22/trucktax-app-sub002/internal/calculation"
	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
)

var (
	ErrDraftClosed          = errors.New("draft is already paid or submitted")
	ErrPaymentPending       = errors.New("draft has a payment in progress")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrRegistryUnavailable  = errors.New("registry lookup not configured")
	ErrMissingCarrierID     = errors.New("draft has no carrier id")
)

// Service ties pricing to the draft store and the external collaborators.
type Service struct {
	store    Store
	engine   *calculation.Engine
	registry RegistryLookup
	gateway  PaymentGateway
	logger   calculation.Logger
}

// NewService creates a filing service. registry and gateway may be nil when
// the caller never pre-fills or checks out.
func NewService(store Store, engine *calculation.Engine, registry RegistryLookup, gateway PaymentGateway) *Service {
	if engine == nil {
		engine = calculation.NewDefaultEngine()
	}
	return &Service{store: store, engine: engine, registry: registry, gateway: gateway, logger: calculation.NopLogger{}}
}

// SetLogger sets the logger for the service. If nil is provided, a no-op logger is used.
func (s *Service) SetLogger(l calculation.Logger) {
	if l == nil {
		s.logger = calculation.NopLogger{}
		return
	}
	s.logger = l
}

func (s *Service) price(req domain.FilingRequest) (*domain.PricingBreakdown, error) {
	return s.engine.CalculateFilingCost(req.Intent, req.Vehicles, req.Locale)
}

// SaveDraft prices a request and stores it as a new draft.
func (s *Service) SaveDraft(ctx context.Context, req domain.FilingRequest) (Draft, error) {
	b, err := s.price(req)
	if err != nil {
		return Draft{}, err
	}
	d, err := s.store.Create(ctx, Draft{Request: req, Breakdown: b, Status: StatusDraft})
	if err != nil {
		return Draft{}, fmt.Errorf("failed to create draft: %w", err)
	}
	s.logger.Infof("draft %s saved: %s filing, %d vehicles, total %s", d.ID, req.Intent.FilingType, b.VehicleCount, b.GrandTotal.StringFixed(2))
	return d, nil
}

// UpdateDraft replaces the request of an open draft and reprices it.
func (s *Service) UpdateDraft(ctx context.Context, id string, req domain.FilingRequest) (Draft, error) {
	d, err := s.editableDraft(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	b, err := s.price(req)
	if err != nil {
		return Draft{}, err
	}
	if d.Request.CarrierID != req.CarrierID {
		d.Identity = nil
	}
	d.Request = req
	d.Breakdown = b
	return s.store.Update(ctx, d)
}

// Reprice recomputes the cached breakdown of an open draft from its request.
func (s *Service) Reprice(ctx context.Context, id string) (Draft, error) {
	d, err := s.editableDraft(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	b, err := s.price(d.Request)
	if err != nil {
		return Draft{}, err
	}
	d.Breakdown = b
	return s.store.Update(ctx, d)
}

// GetDraft returns a stored draft.
func (s *Service) GetDraft(ctx context.Context, id string) (Draft, error) {
	return s.store.Get(ctx, id)
}

// DeleteDraft removes an open draft.
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	if _, err := s.editableDraft(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Prefill attaches the registry identity of the draft's carrier.
func (s *Service) Prefill(ctx context.Context, id string) (Draft, error) {
	if s.registry == nil {
		return Draft{}, ErrRegistryUnavailable
	}
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Request.CarrierID == "" {
		return Draft{}, ErrMissingCarrierID
	}
	identity, err := s.registry.Lookup(ctx, d.Request.CarrierID)
	if err != nil {
		return Draft{}, fmt.Errorf("registry lookup for carrier %s: %w", d.Request.CarrierID, err)
	}
	d.Identity = &identity
	return s.store.Update(ctx, d)
}

// Checkout reprices the draft and charges its grand total. Drafts with
// nothing to charge, such as refund claims without a fee, are marked
// submitted without contacting the gateway. A failed charge is recorded on
// the draft and returned.
//
// The draft is marked payment_pending before the gateway is called. A
// checkout that finds it still pending resumes the same attempt, so the
// gateway sees the same idempotency key and never charges twice.
func (s *Service) Checkout(ctx context.Context, id string) (Draft, error) {
	d, err := s.openDraft(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	b, err := s.price(d.Request)
	if err != nil {
		return Draft{}, err
	}
	d.Breakdown = b

	if !b.GrandTotal.IsPositive() {
		d.Status = StatusSubmitted
		d.LastError = ""
		s.logger.Infof("draft %s submitted with nothing to charge", d.ID)
		return s.store.Update(ctx, d)
	}
	if s.gateway == nil {
		return Draft{}, ErrGatewayNotConfigured
	}

	if d.Status == StatusPaymentPending {
		s.logger.Warnf("draft %s resuming pending charge attempt %d", d.ID, d.ChargeAttempts)
	} else {
		d.ChargeAttempts++
		d.Status = StatusPaymentPending
	}
	d.LastError = ""
	if d, err = s.store.Update(ctx, d); err != nil {
		return Draft{}, fmt.Errorf("failed to record pending payment: %w", err)
	}

	metadata := map[string]string{
		"draft_id":       d.ID,
		"charge_attempt": strconv.Itoa(d.ChargeAttempts),
		"filing_type":    string(d.Request.Intent.FilingType),
		"vehicle_count":  strconv.Itoa(b.VehicleCount),
	}
	if d.Request.CarrierID != "" {
		metadata["carrier_id"] = d.Request.CarrierID
	}
	if c := d.Request.Intent.Coupon; c != nil && c.Code != "" {
		metadata["coupon"] = c.Code
	}

	conf, chargeErr := s.gateway.Charge(ctx, b.GrandTotal, metadata)
	if chargeErr != nil {
		s.logger.Errorf("charge for draft %s failed: %v", d.ID, chargeErr)
		d.Status = StatusPaymentFailed
		d.LastError = chargeErr.Error()
		if _, err := s.store.Update(ctx, d); err != nil {
			return Draft{}, fmt.Errorf("failed to record payment failure: %w", err)
		}
		return Draft{}, fmt.Errorf("payment failed: %w", chargeErr)
	}

	d.Status = StatusPaid
	d.Payment = &conf
	paid, err := s.store.Update(ctx, d)
	if err != nil {
		s.logger.Errorf("draft %s charged (%s) but not recorded: %v", d.ID, conf.ID, err)
		return Draft{}, fmt.Errorf("failed to record payment %s: %w", conf.ID, err)
	}
	s.logger.Infof("draft %s paid: %s %s", d.ID, conf.ID, b.GrandTotal.StringFixed(2))
	return paid, nil
}

func (s *Service) openDraft(ctx context.Context, id string) (Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Status.Closed() {
		return Draft{}, ErrDraftClosed
	}
	return d, nil
}

// editableDraft returns a draft whose request may still change. A pending
// payment locks the request until its checkout is resumed.
func (s *Service) editableDraft(ctx context.Context, id string) (Draft, error) {
	d, err := s.openDraft(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Status == StatusPaymentPending {
		return Draft{}, ErrPaymentPending
	}
	return d, nil
}
