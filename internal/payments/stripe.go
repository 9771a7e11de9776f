package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rootlocus22/trucktax-app-sub002/internal/filing"
	money "github.com/rootlocus22/trucktax-app-sub002/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// ErrInvalidAmount is returned for charges that are not positive.
var ErrInvalidAmount = errors.New("charge amount must be positive")

// paymentIntents is the part of the Stripe client the gateway uses.
type paymentIntents interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
}

// RetryConfig bounds the retries of a charge that failed transiently.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig retries twice within ten seconds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     4 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

func (rc RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = rc.InitialInterval
	exp.MaxInterval = rc.MaxInterval
	exp.MaxElapsedTime = rc.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(rc.MaxRetries)), ctx)
}

// StripeGateway charges filings through Stripe PaymentIntents.
type StripeGateway struct {
	intents     paymentIntents
	currency    string
	description string
	retry       RetryConfig
	logger      *zap.Logger
}

var _ filing.PaymentGateway = (*StripeGateway)(nil)

// NewStripeGateway creates a gateway for the given secret key.
func NewStripeGateway(apiKey string, logger *zap.Logger) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API key not provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := stripe.NewClient(apiKey, nil)
	return &StripeGateway{
		intents:     client.V1PaymentIntents,
		currency:    string(stripe.CurrencyUSD),
		description: "Form 2290 filing",
		retry:       DefaultRetryConfig(),
		logger:      logger,
	}, nil
}

// SetRetryConfig replaces the retry policy for transient failures.
func (g *StripeGateway) SetRetryConfig(rc RetryConfig) {
	g.retry = rc
}

// Charge creates a PaymentIntent for amount, sent to Stripe in cents.
// Rate limits and server errors are retried under one idempotency key, so
// Stripe creates at most one PaymentIntent per call. The key is derived from
// the draft_id and charge_attempt metadata when both are present, which
// makes a resumed checkout replay the original request.
func (g *StripeGateway) Charge(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (filing.Confirmation, error) {
	cents := money.NewMoneyFromDecimal(amount).Cents()
	if cents <= 0 {
		return filing.Confirmation{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.StringFixed(2))
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:                  stripe.Int64(cents),
		Currency:                stripe.String(g.currency),
		Description:             stripe.String(g.description),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{Enabled: stripe.Bool(true)},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.SetIdempotencyKey(idempotencyKey(metadata))

	g.logger.Info("Creating Stripe PaymentIntent", zap.Int64("amount_cents", cents), zap.String("draft_id", metadata["draft_id"]))
	var pi *stripe.PaymentIntent
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		pi, err = g.intents.Create(ctx, params)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		g.logger.Warn("Retrying Stripe PaymentIntent", zap.Error(err), zap.Int("attempt", attempt))
		return err
	}
	if err := backoff.Retry(operation, g.retry.backOff(ctx)); err != nil {
		g.logger.Error("Failed to create Stripe PaymentIntent", zap.Error(err), zap.Int64("amount_cents", cents), zap.Int("attempts", attempt))
		return filing.Confirmation{}, fmt.Errorf("stripe gateway: %w", err)
	}

	g.logger.Info("Created Stripe PaymentIntent", zap.String("stripe_pi_id", pi.ID), zap.String("status", string(pi.Status)))
	return filing.Confirmation{
		ID:       pi.ID,
		Provider: "stripe",
		Status:   string(pi.Status),
		Amount:   money.FromCents(pi.Amount).Decimal,
	}, nil
}

// idempotencyKey ties the retries of one charge together. Without a draft
// attempt to key on, every call gets a fresh key.
func idempotencyKey(metadata map[string]string) string {
	draftID, attempt := metadata["draft_id"], metadata["charge_attempt"]
	if draftID == "" || attempt == "" {
		return "hvut-" + uuid.NewString()
	}
	return "hvut-" + draftID + "-" + attempt
}

// retryable reports whether Stripe rejected the request for a reason that
// may clear on its own.
func retryable(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.HTTPStatusCode == http.StatusTooManyRequests || se.HTTPStatusCode >= http.StatusInternalServerError
}
