package data

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradein-valuation/internal/model"
)

const releaseDateLayout = "2006-01-02"

// ProfileRecord is the YAML shape of a catalog entry. Prices are strings so
// they never pass through a float.
type ProfileRecord struct {
	ID                      string   `yaml:"id"`
	Brand                   string   `yaml:"brand"`
	Model                   string   `yaml:"model"`
	ReleaseDate             string   `yaml:"release_date"` // YYYY-MM-DD
	BasePrice               string   `yaml:"base_price"`
	BaselineMarketDemand    float64  `yaml:"baseline_market_demand"`
	BaselineSupplyLevel     float64  `yaml:"baseline_supply_level"`
	BaselineCompetitorPrice string   `yaml:"baseline_competitor_price"`
	StorageOptions          []string `yaml:"storage_options"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"active,omitempty"`
}

// ToModel converts and normalizes the record. Range checks on the ratios are
// left to the engine so a bad entry fails only its own valuations.
func (r ProfileRecord) ToModel() (*model.DeviceMarketProfile, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return nil, errors.New("id is required")
	}
	release, err := time.Parse(releaseDateLayout, strings.TrimSpace(r.ReleaseDate))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: release_date", id)
	}
	base, err := decimal.NewFromString(strings.TrimSpace(r.BasePrice))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: base_price", id)
	}
	competitor, err := decimal.NewFromString(strings.TrimSpace(r.BaselineCompetitorPrice))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: baseline_competitor_price", id)
	}
	options := make([]model.StorageTier, 0, len(r.StorageOptions))
	for _, raw := range r.StorageOptions {
		tier, err := model.ParseStorageTier(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: storage_options", id)
		}
		options = append(options, tier)
	}
	model.SortStorageTiers(options)

	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &model.DeviceMarketProfile{
		ID:                      id,
		Brand:                   strings.TrimSpace(r.Brand),
		Model:                   strings.TrimSpace(r.Model),
		ReleaseDate:             release,
		BasePrice:               base,
		BaselineMarketDemand:    r.BaselineMarketDemand,
		BaselineSupplyLevel:     r.BaselineSupplyLevel,
		BaselineCompetitorPrice: competitor,
		StorageOptions:          options,
		Active:                  active,
	}, nil
}

// RecordFromModel is the inverse of ToModel.
func RecordFromModel(p *model.DeviceMarketProfile) ProfileRecord {
	options := make([]string, len(p.StorageOptions))
	for i, t := range p.StorageOptions {
		options[i] = t.String()
	}
	active := p.Active
	return ProfileRecord{
		ID:                      p.ID,
		Brand:                   p.Brand,
		Model:                   p.Model,
		ReleaseDate:             p.ReleaseDate.Format(releaseDateLayout),
		BasePrice:               p.BasePrice.String(),
		BaselineMarketDemand:    p.BaselineMarketDemand,
		BaselineSupplyLevel:     p.BaselineSupplyLevel,
		BaselineCompetitorPrice: p.BaselineCompetitorPrice.String(),
		StorageOptions:          options,
		Active:                  &active,
	}
}
