package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultTables().DecayFloor, tables.DecayFloor)
	assert.Len(t, tables.Seasons, 4)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, "valuation.yaml", `
valuation:
  decay:
    monthly_rate: 0.05
  seasons:
    - name: launch
      months: [sep]
      factor: 1.25
    - name: holiday
      months: [October, "11", dec]
      factor: 1.1
  storage:
    64gb: 1.0
    128 GB: 1.05
    256GB: 1.2
  minimum_offer: "25"
`)
	tables, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.05, tables.MonthlyDecayRate)
	assert.Equal(t, 0.2, tables.DecayFloor)
	require.Len(t, tables.Seasons, 2)
	assert.Equal(t, []time.Month{time.October, time.November, time.December}, tables.Seasons[1].Months)
	assert.Equal(t, map[model.StorageTier]float64{"64GB": 1.0, "128GB": 1.05, "256GB": 1.2}, tables.Storage)
	assert.Equal(t, "25", tables.MinimumOffer.String())
	assert.Equal(t, 0.8, tables.Conditions[model.ConditionGood])
}

func TestLoad_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown condition", "valuation:\n  conditions:\n    mint: 1.0\n"},
		{"bad month", "valuation:\n  seasons:\n    - name: x\n      months: [smarch]\n      factor: 1\n"},
		{"curve without fixed point", "valuation:\n  supply_demand_curve:\n    - {x: 0.5, y: 0.9}\n    - {x: 2, y: 1.3}\n"},
		{"bad money", "valuation:\n  maximum_offer: lots\n"},
		{"not yaml", "valuation: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseMonth(t *testing.T) {
	for raw, want := range map[string]time.Month{"jan": time.January, "September": time.September, "12": time.December, " 3 ": time.March} {
		got, err := ParseMonth(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "0", "13", "spring"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestExampleConfigLoads(t *testing.T) {
	tables, err := Load(filepath.Join("..", "..", "examples", "valuation.yaml"))
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultTables().SupplyDemandCurve, tables.SupplyDemandCurve)
}
