package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/config"
	"tradein-valuation/internal/data"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/tradein"
)

func settings(cache string) *config.Settings {
	return &config.Settings{
		Profiles: config.ProfileSettings{
			Source:        "file",
			Dir:           filepath.Join("..", "..", "examples", "profiles"),
			LookupTimeout: time.Second,
		},
		Cache:    config.CacheSettings{Kind: cache, TTL: time.Minute, RedisAddr: "127.0.0.1:1"},
		TradeIns: config.TradeInSettings{Store: "memory"},
	}
}

func TestOpen_FileSource(t *testing.T) {
	tests := []struct {
		cache     string
		wantCache bool
	}{
		{"none", false},
		{"memory", true},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.cache, func(t *testing.T) {
			ctx := context.Background()
			b, err := Open(ctx, settings(tt.cache), nil)
			require.NoError(t, err)
			defer b.Close(ctx)

			require.NotNil(t, b.File)
			assert.Equal(t, tt.wantCache, b.Cache != nil)
			if tt.wantCache {
				_, ok := b.Store.(*data.CachedStore)
				assert.True(t, ok)
			}

			p, err := b.Store.GetProfile(ctx, "apple-iphone-16")
			require.NoError(t, err)
			assert.Equal(t, "Apple", p.Brand)

			_, err = b.Store.GetProfile(ctx, "apple-iphone-11")
			assert.True(t, errors.Is(err, model.ErrNotFound))
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	s := settings("memory")
	s.Profiles.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := Open(context.Background(), s, nil)
	assert.Error(t, err)

	s = settings("disk")
	_, err = Open(context.Background(), s, nil)
	assert.Error(t, err)
}

func TestTradeIns_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, settings("none"), nil)
	require.NoError(t, err)
	repo, err := b.TradeIns(ctx)
	require.NoError(t, err)
	_, ok := repo.(*tradein.MemoryRepository)
	assert.True(t, ok)
	assert.NoError(t, b.Close(ctx))
}
