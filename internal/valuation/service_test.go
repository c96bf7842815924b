package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
)

type stubStore struct {
	profiles map[string]*model.DeviceMarketProfile
	err      error
	delay    time.Duration
	calls    int
}

func (s *stubStore) GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[deviceID]
	if !ok {
		return nil, errors.Wrapf(model.ErrNotFound, "%q", deviceID)
	}
	return p, nil
}

func newTestService(t *testing.T, store *stubStore, timeout time.Duration) *Service {
	t.Helper()
	return NewService(store, newTestEngine(t), timeout, nil)
}

func TestService_Quote(t *testing.T) {
	p := testProfile(date(2026, time.July, 15))
	store := &stubStore{profiles: map[string]*model.DeviceMarketProfile{p.ID: p}}
	svc := newTestService(t, store, time.Second)

	res, err := svc.Quote(context.Background(), Request{DeviceID: p.ID, Storage: "256GB", Condition: model.ConditionGood, Now: date(2026, time.October, 15)})
	require.NoError(t, err)
	assert.Equal(t, "1017", res.FinalValue.String())
	assert.Equal(t, "Apple", res.Brand)
}

func TestService_Quote_RejectsBeforeLookup(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store, time.Second)

	_, err := svc.Quote(context.Background(), Request{DeviceID: "x", Storage: "256GB", Condition: "shiny", Now: date(2026, time.October, 15)})
	assert.True(t, errors.Is(err, model.ErrInvalidCondition))
	assert.Zero(t, store.calls)
}

func TestService_Quote_LookupFailures(t *testing.T) {
	now := date(2026, time.October, 15)
	tests := []struct {
		name  string
		store *stubStore
		want  error
	}{
		{"unknown device", &stubStore{profiles: map[string]*model.DeviceMarketProfile{}}, model.ErrNotFound},
		{"backend down", &stubStore{err: errors.Wrap(model.ErrUpstreamUnavailable, "connection refused")}, model.ErrUpstreamUnavailable},
		{"unclassified backend error", &stubStore{err: errors.New("boom")}, model.ErrUpstreamUnavailable},
		{"lookup timeout", &stubStore{delay: time.Second}, model.ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.store, 20*time.Millisecond)
			res, err := svc.Quote(context.Background(), Request{DeviceID: "apple-iphone-17-pro", Storage: "256GB", Condition: model.ConditionGood, Now: now})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestService_Offers(t *testing.T) {
	p := testProfile(date(2026, time.July, 15))
	svc := newTestService(t, &stubStore{profiles: map[string]*model.DeviceMarketProfile{p.ID: p}}, 0)

	rows, err := svc.Offers(context.Background(), p.ID, date(2026, time.October, 15))
	require.NoError(t, err)
	assert.Len(t, rows, len(p.StorageOptions)*len(model.Conditions()))

	_, err = svc.Offers(context.Background(), p.ID, time.Time{})
	assert.True(t, errors.Is(err, model.ErrInvalidRequest))
}
