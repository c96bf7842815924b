package data

import (
	"context"
	"sort"

	"tradein-valuation/internal/model"
)

// Store is a read-only source of device market profiles. GetProfile returns
// model.ErrNotFound for unknown or inactive devices and
// model.ErrUpstreamUnavailable when the backend cannot answer.
type Store interface {
	GetProfile(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, error)
	// List returns active profiles ordered by brand, then model.
	List(ctx context.Context) ([]*model.DeviceMarketProfile, error)
}

func sortProfiles(profiles []*model.DeviceMarketProfile) {
	sort.Slice(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		return a.ID < b.ID
	})
}
