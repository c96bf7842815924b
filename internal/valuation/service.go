package valuation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
)

// ProfileStore resolves market profiles by device id.
type ProfileStore interface {
	GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error)
}

// Service binds the pure engine to a profile store. The profile lookup is
// the only blocking step and is bounded by lookupTimeout.
type Service struct {
	store         ProfileStore
	engine        *Engine
	lookupTimeout time.Duration
	logger        *zap.Logger
}

func NewService(store ProfileStore, engine *Engine, lookupTimeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:         store,
		engine:        engine,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Quote resolves the profile and computes the offer. Failures never fall back
// to a default price.
func (s *Service) Quote(ctx context.Context, req Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.lookup(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Compute(p, req)
	if err != nil {
		if errors.Is(err, model.ErrComputation) {
			s.logger.Error("valuation rejected by bounds check",
				zap.String("device_id", req.DeviceID),
				zap.String("storage", req.Storage.String()),
				zap.String("condition", req.Condition.String()),
				zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("valuation computed",
		zap.String("device_id", req.DeviceID),
		zap.String("storage", req.Storage.String()),
		zap.String("condition", req.Condition.String()),
		zap.Time("now", req.Now),
		zap.String("final_value", res.FinalValue.String()))
	return res, nil
}

// Offers computes the full storage x condition matrix for one device.
func (s *Service) Offers(ctx context.Context, deviceID string, now time.Time) ([]*Result, error) {
	if now.IsZero() {
		return nil, errors.Wrap(model.ErrInvalidRequest, "valuation time is required")
	}
	p, err := s.lookup(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return s.engine.Matrix(p, now)
}

func (s *Service) lookup(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}
	p, err := s.store.GetProfile(ctx, deviceID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUpstreamUnavailable):
		return nil, err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.logger.Warn("profile lookup timed out", zap.String("device_id", deviceID), zap.Error(err))
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "lookup %q: %v", deviceID, err)
	default:
		s.logger.Error("profile lookup failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, errors.Wrapf(model.ErrUpstreamUnavailable, "lookup %q: %v", deviceID, err)
	}
}
