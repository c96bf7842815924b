package data

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
)

// ProfileCache holds recently resolved profiles. Profiles are admin-curated,
// so a TTL of minutes is acceptable staleness.
type ProfileCache interface {
	Get(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, bool)
	Set(ctx context.Context, deviceID string, p *model.DeviceMarketProfile)
	Flush(ctx context.Context) error
}

// MemoryCache is an in-process ProfileCache.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	cleanup := 2 * ttl
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryCache{c: gocache.New(ttl, cleanup)}
}

func (m *MemoryCache) Get(_ context.Context, deviceID string) (*model.DeviceMarketProfile, bool) {
	v, ok := m.c.Get(deviceID)
	if !ok {
		return nil, false
	}
	p, ok := v.(*model.DeviceMarketProfile)
	return p, ok
}

func (m *MemoryCache) Set(_ context.Context, deviceID string, p *model.DeviceMarketProfile) {
	m.c.SetDefault(deviceID, p)
}

func (m *MemoryCache) Flush(context.Context) error {
	m.c.Flush()
	return nil
}

// CachedStore puts a ProfileCache in front of a Store. Only successful
// lookups are cached; not-found and upstream errors always go to the backend.
type CachedStore struct {
	backend Store
	cache   ProfileCache
	logger  *zap.Logger
}

func NewCachedStore(backend Store, cache ProfileCache, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{backend: backend, cache: cache, logger: logger}
}

func (s *CachedStore) GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	if p, ok := s.cache.Get(ctx, deviceID); ok {
		s.logger.Debug("profile cache hit", zap.String("device_id", deviceID))
		return p, nil
	}
	p, err := s.backend.GetProfile(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, deviceID, p)
	return p, nil
}

// List always reads through; the catalog listing is not on the quote path.
func (s *CachedStore) List(ctx context.Context) ([]*model.DeviceMarketProfile, error) {
	return s.backend.List(ctx)
}

// Invalidate drops every cached profile.
func (s *CachedStore) Invalidate(ctx context.Context) error {
	return s.cache.Flush(ctx)
}
