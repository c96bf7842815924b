package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"tradein-valuation/internal/config"
	"tradein-valuation/internal/data"
	"tradein-valuation/internal/tradein"
)

// Backend holds the profile store selected by Settings plus the clients it
// opened, so callers can close them on shutdown.
type Backend struct {
	// Store is the store handed to the service, cache included.
	Store data.Store
	// File is set for the file source; it is what the reload job refreshes.
	File *data.FileStore
	// Cache is nil when PROFILE_CACHE=none.
	Cache *data.CachedStore

	settings *config.Settings
	logger   *zap.Logger
	mongo    *mongo.Client
	redis    *redis.Client
}

// Open connects the configured profile source and wraps it in the
// configured cache.
func Open(ctx context.Context, s *config.Settings, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{settings: s, logger: logger}

	var backend data.Store
	switch s.Profiles.Source {
	case "file":
		fs, err := data.NewFileStore(s.Profiles.Dir, logger.Named("store.file"))
		if err != nil {
			return nil, err
		}
		b.File = fs
		backend = fs
	case "mongo":
		client, err := b.Mongo(ctx)
		if err != nil {
			return nil, err
		}
		backend = data.NewMongoStore(client, s.MongoDB.DBName, logger.Named("store.mongo"))
	case "http":
		backend = data.NewHTTPStore(s.Catalog.BaseURL, s.Catalog.Timeout, logger.Named("store.http"))
	default:
		return nil, errors.Errorf("unknown profile source %q", s.Profiles.Source)
	}

	switch s.Cache.Kind {
	case "none":
		b.Store = backend
	case "memory":
		b.Cache = data.NewCachedStore(backend, data.NewMemoryCache(s.Cache.TTL), logger.Named("store.cache"))
		b.Store = b.Cache
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: s.Cache.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// The cache degrades to misses, so an unreachable redis is not fatal.
			logger.Warn("redis unreachable at startup", zap.String("addr", s.Cache.RedisAddr), zap.Error(err))
		}
		b.redis = rdb
		cache := data.NewRedisCache(rdb, s.Cache.TTL, logger.Named("cache.redis"))
		b.Cache = data.NewCachedStore(backend, cache, logger.Named("store.cache"))
		b.Store = b.Cache
	default:
		return nil, errors.Errorf("unknown profile cache %q", s.Cache.Kind)
	}

	logger.Info("profile store ready",
		zap.String("source", s.Profiles.Source),
		zap.String("cache", s.Cache.Kind))
	return b, nil
}

// Mongo returns the shared client, connecting on first use.
func (b *Backend) Mongo(ctx context.Context) (*mongo.Client, error) {
	if b.mongo != nil {
		return b.mongo, nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := data.ConnectMongo(connectCtx, b.settings.MongoDB.URI)
	if err != nil {
		return nil, err
	}
	b.mongo = client
	return client, nil
}

// TradeIns opens the configured submission repository.
func (b *Backend) TradeIns(ctx context.Context) (tradein.Repository, error) {
	switch b.settings.TradeIns.Store {
	case "memory":
		return tradein.NewMemoryRepository(), nil
	case "mongo":
		client, err := b.Mongo(ctx)
		if err != nil {
			return nil, err
		}
		return tradein.NewMongoRepository(client, b.settings.MongoDB.DBName, b.logger.Named("repo.tradein")), nil
	default:
		return nil, errors.Errorf("unknown trade-in store %q", b.settings.TradeIns.Store)
	}
}

// Close releases every client Open or Mongo created.
func (b *Backend) Close(ctx context.Context) error {
	var errs []string
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			errs = append(errs, "redis: "+err.Error())
		}
	}
	if b.mongo != nil {
		if err := b.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, "mongodb: "+err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("close backend: %v", errs)
	}
	return nil
}
