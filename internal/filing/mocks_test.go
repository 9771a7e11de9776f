package filing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Charge(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (Confirmation, error) {
	args := m.Called(ctx, amount, metadata)
	return args.Get(0).(Confirmation), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Lookup(ctx context.Context, carrierID string) (CarrierIdentity, error) {
	args := m.Called(ctx, carrierID)
	return args.Get(0).(CarrierIdentity), args.Error(1)
}

// flakyStore fails the first Update that would store failOn.
type flakyStore struct {
	*MemoryStore
	failOn Status
	failed bool
}

func (s *flakyStore) Update(ctx context.Context, d Draft) (Draft, error) {
	if !s.failed && d.Status == s.failOn {
		s.failed = true
		return Draft{}, errors.New("write failed")
	}
	return s.MemoryStore.Update(ctx, d)
}
