package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeviceMarketProfile is the admin-curated market reference for one device
// model. Prices are in the shop currency.
//
// Ratios:
// - BaselineMarketDemand: 0..1
// - BaselineSupplyLevel: 0..1
type DeviceMarketProfile struct {
	ID          string    `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	ReleaseDate time.Time `json:"release_date"`

	// BasePrice is the reference value at release.
	BasePrice               decimal.Decimal `json:"base_price"`
	BaselineMarketDemand    float64         `json:"baseline_market_demand"`
	BaselineSupplyLevel     float64         `json:"baseline_supply_level"`
	BaselineCompetitorPrice decimal.Decimal `json:"baseline_competitor_price"`

	StorageOptions []StorageTier `json:"storage_options"`
	Active         bool          `json:"active"`
}

// HasStorage reports whether tier is one of the device's declared options.
func (p *DeviceMarketProfile) HasStorage(tier StorageTier) bool {
	if p == nil {
		return false
	}
	for _, opt := range p.StorageOptions {
		if opt == tier {
			return true
		}
	}
	return false
}

// DisplayName is "Brand Model", falling back to the id.
func (p *DeviceMarketProfile) DisplayName() string {
	switch {
	case p.Brand != "" && p.Model != "":
		return p.Brand + " " + p.Model
	case p.Model != "":
		return p.Model
	default:
		return p.ID
	}
}
