package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
)

func TestDefaultTables_Valid(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())
}

func TestTables_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
		errMsg string
	}{
		{"decay floor zero", func(t *Tables) { t.DecayFloor = 0 }, "decay floor"},
		{"age steps out of order", func(t *Tables) { t.AgeSteps[1].MaxMonths = 3 }, "increasing"},
		{"negative season", func(t *Tables) { t.Seasons[0].Factor = -1 }, "season"},
		{"condition above one", func(t *Tables) { t.Conditions[model.ConditionGood] = 1.2 }, "condition"},
		{"condition missing", func(t *Tables) { delete(t.Conditions, model.ConditionFair) }, "no multiplier"},
		{"worse grade worth more", func(t *Tables) { t.Conditions[model.ConditionPoor] = 0.9 }, "better grade"},
		{"storage below one", func(t *Tables) { t.Storage["64GB"] = 0.9 }, ">= 1"},
		{"larger storage worth less", func(t *Tables) { t.Storage["1TB"] = 1.1 }, "worth less"},
		{"bad storage label", func(t *Tables) { t.Storage["big"] = 1.0 }, "storage tier"},
		{"demand floor zero", func(t *Tables) { t.DemandRange.Min = 0 }, "demand range"},
		{"decreasing supply/demand curve", func(t *Tables) { t.SupplyDemandCurve[3].Y = 0.9 }, "non-decreasing"},
		{"supply/demand curve misses fixed point", func(t *Tables) { t.SupplyDemandCurve[1].Y = 1.05 }, "ratio 1"},
		{"increasing market curve", func(t *Tables) { t.MarketPositionCurve[3].Y = 1.1 }, "non-increasing"},
		{"market band excludes one", func(t *Tables) { t.MarketRateBand = Range{Min: 1.01, Max: 1.05} }, "contain 1"},
		{"negative minimum offer", func(t *Tables) { t.MinimumOffer = decimal.NewFromInt(-1) }, "minimum offer"},
		{"ceiling below floor", func(t *Tables) {
			t.MinimumOffer = decimal.NewFromInt(100)
			t.MaximumOffer = decimal.NewFromInt(10)
		}, "maximum offer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(&tables)
			err := tables.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			_, err = NewEngine(tables)
			assert.Error(t, err)
		})
	}
}

func TestCurve_At(t *testing.T) {
	c := DefaultTables().SupplyDemandCurve
	tests := []struct {
		x    float64
		want float64
	}{
		{0.05, 0.85},
		{0.5, 0.85},
		{0.75, 0.925},
		{1.0, 1.0},
		{1.25, 1.05},
		{2.1, 1.14},
		{10, 1.20},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, c.At(tt.x), 1e-9, "x=%v", tt.x)
	}

	lo, hi := c.Bounds()
	assert.Equal(t, 0.85, lo)
	assert.Equal(t, 1.20, hi)
}

func TestCurve_MarketPositionBand(t *testing.T) {
	c := DefaultTables().MarketPositionCurve
	for _, x := range []float64{0.95, 0.99, 1.0, 1.03, 1.05} {
		assert.InDelta(t, 1.0, c.At(x), 1e-12, "x=%v", x)
	}
	assert.Greater(t, c.At(0.8), 1.0)
	assert.Less(t, c.At(1.2), 1.0)
	assert.Equal(t, 0.92, c.At(3))
}
