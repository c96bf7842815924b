package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
)

func marketProfile(demand, supply float64, competitor int64) *model.DeviceMarketProfile {
	return &model.DeviceMarketProfile{
		ID:                      "test",
		BaselineMarketDemand:    demand,
		BaselineSupplyLevel:     supply,
		BaselineCompetitorPrice: decimal.NewFromInt(competitor),
	}
}

func TestTables_Market(t *testing.T) {
	tables := DefaultTables()
	decay := Decay{TimeDecay: 0.8, DemandAgeFactor: 1, SupplyAgeFactor: 1}

	tests := []struct {
		name        string
		profile     *model.DeviceMarketProfile
		ageAdjusted int64
		ratio       float64
		sdMult      float64
		demand      DemandSignal
		position    float64
		posMult     float64
		market      MarketSignal
	}{
		{
			name:        "high demand at market rate",
			profile:     marketProfile(0.9, 0.5, 1000),
			ageAdjusted: 800,
			ratio:       1.8,
			sdMult:      1.12,
			demand:      DemandHigh,
			position:    1.0,
			posMult:     1.0,
			market:      MarketRate,
		},
		{
			name:        "clamped to floors and ceilings",
			profile:     marketProfile(0.01, 2.0, 1000),
			ageAdjusted: 400,
			ratio:       0.05,
			sdMult:      0.85,
			demand:      DemandLow,
			position:    0.5,
			posMult:     1.06,
			market:      MarketBelow,
		},
		{
			name:        "above market",
			profile:     marketProfile(0.6, 0.6, 1000),
			ageAdjusted: 1200,
			ratio:       1.0,
			sdMult:      1.0,
			demand:      DemandBalanced,
			position:    1.5,
			posMult:     0.92,
			market:      MarketAbove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tables.Market(tt.profile, decay, 1.0, decimal.NewFromInt(tt.ageAdjusted))
			require.NoError(t, err)
			assert.InDelta(t, tt.ratio, m.SupplyDemandRatio, 1e-9)
			assert.InDelta(t, tt.sdMult, m.SupplyDemandMultiplier, 1e-9)
			assert.Equal(t, tt.demand, m.DemandSignal)
			assert.True(t, m.CompetitorPrice.Equal(decimal.NewFromInt(800)), m.CompetitorPrice.String())
			assert.InDelta(t, tt.position, m.MarketPosition, 1e-9)
			assert.InDelta(t, tt.posMult, m.MarketPositionMultiplier, 1e-9)
			assert.Equal(t, tt.market, m.MarketSignal)
		})
	}
}

func TestTables_Market_NonPositiveCompetitorPrice(t *testing.T) {
	tables := DefaultTables()
	decay := Decay{TimeDecay: 0.8, DemandAgeFactor: 1, SupplyAgeFactor: 1}

	_, err := tables.Market(marketProfile(0.5, 0.5, 0), decay, 1.0, decimal.NewFromInt(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrComputation)
}
