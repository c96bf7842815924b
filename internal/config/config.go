package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

// Config is the on-disk configuration shape (YAML). Every field is optional;
// anything left out keeps the built-in default from valuation.DefaultTables.
type Config struct {
	Valuation ValuationConfig `yaml:"valuation"`
}

type ValuationConfig struct {
	Decay       DecayConfig     `yaml:"decay"`
	AgeSteps    []AgeStepConfig `yaml:"age_steps"`
	AgeFallback AgeStepConfig   `yaml:"age_fallback"`
	Seasons     []SeasonConfig  `yaml:"seasons"`
	// DefaultSeasonal applies to months no season covers.
	DefaultSeasonal float64 `yaml:"default_seasonal"`

	Conditions map[string]float64 `yaml:"conditions"`
	Storage    map[string]float64 `yaml:"storage"`

	DemandRange RangeConfig `yaml:"demand_range"`
	SupplyRange RangeConfig `yaml:"supply_range"`

	SupplyDemandCurve []valuation.Point `yaml:"supply_demand_curve"`
	HighDemandRatio   float64           `yaml:"high_demand_ratio"`
	LowDemandRatio    float64           `yaml:"low_demand_ratio"`

	MarketPositionCurve []valuation.Point `yaml:"market_position_curve"`
	MarketRateBand      RangeConfig       `yaml:"market_rate_band"`

	// Money as strings so YAML floats never round the offer bounds.
	MinimumOffer string `yaml:"minimum_offer"`
	MaximumOffer string `yaml:"maximum_offer"`
}

type DecayConfig struct {
	MonthlyRate float64 `yaml:"monthly_rate"`
	Floor       float64 `yaml:"floor"`
}

type AgeStepConfig struct {
	MaxMonths    float64 `yaml:"max_months"`
	DemandFactor float64 `yaml:"demand_factor"`
	SupplyFactor float64 `yaml:"supply_factor"`
}

type SeasonConfig struct {
	Name   string   `yaml:"name"`
	Months []string `yaml:"months"` // "sep", "september" or "9"
	Factor float64  `yaml:"factor"`
}

type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Load reads the YAML file, overlays it on the defaults and validates the
// resulting tables. An empty path yields the defaults.
func Load(path string) (*valuation.Tables, error) {
	if path == "" {
		t := valuation.DefaultTables()
		return &t, nil
	}
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	return c.Tables()
}

// LoadUnchecked parses the file without converting or validating it.
// Useful for printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read valuation config")
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(err, "parse valuation config %s", path)
	}
	return &c, nil
}

// Tables overlays the config onto the defaults and validates the result.
func (c *Config) Tables() (*valuation.Tables, error) {
	if c == nil {
		return nil, errors.New("config is nil")
	}
	t, err := MergeTables(valuation.DefaultTables(), c.Valuation)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "valuation config invalid")
	}
	return &t, nil
}

// MergeTables overlays non-zero fields from override onto base. Lists and
// maps replace the base wholesale so a season or curve is never half merged.
func MergeTables(base valuation.Tables, override ValuationConfig) (valuation.Tables, error) {
	out := base
	// Note: a literal zero cannot switch decay off; use a tiny rate instead.
	if override.Decay.MonthlyRate != 0 {
		out.MonthlyDecayRate = override.Decay.MonthlyRate
	}
	if override.Decay.Floor != 0 {
		out.DecayFloor = override.Decay.Floor
	}
	if len(override.AgeSteps) > 0 {
		out.AgeSteps = make([]valuation.AgeStep, len(override.AgeSteps))
		for i, s := range override.AgeSteps {
			out.AgeSteps[i] = valuation.AgeStep(s)
		}
	}
	if override.AgeFallback.DemandFactor != 0 {
		out.AgeFallback.DemandFactor = override.AgeFallback.DemandFactor
	}
	if override.AgeFallback.SupplyFactor != 0 {
		out.AgeFallback.SupplyFactor = override.AgeFallback.SupplyFactor
	}
	if len(override.Seasons) > 0 {
		out.Seasons = make([]valuation.SeasonWindow, 0, len(override.Seasons))
		for _, s := range override.Seasons {
			months, err := parseMonths(s.Months)
			if err != nil {
				return out, errors.Wrapf(err, "season %q", s.Name)
			}
			out.Seasons = append(out.Seasons, valuation.SeasonWindow{Name: s.Name, Months: months, Factor: s.Factor})
		}
	}
	if override.DefaultSeasonal != 0 {
		out.DefaultSeasonal = override.DefaultSeasonal
	}
	if len(override.Conditions) > 0 {
		out.Conditions = make(map[model.Condition]float64, len(override.Conditions))
		for raw, m := range override.Conditions {
			c, err := model.ParseCondition(raw)
			if err != nil {
				return out, err
			}
			out.Conditions[c] = m
		}
	}
	if len(override.Storage) > 0 {
		out.Storage = make(map[model.StorageTier]float64, len(override.Storage))
		for raw, m := range override.Storage {
			tier, err := model.ParseStorageTier(raw)
			if err != nil {
				return out, err
			}
			out.Storage[tier] = m
		}
	}
	out.DemandRange = mergeRange(out.DemandRange, override.DemandRange)
	out.SupplyRange = mergeRange(out.SupplyRange, override.SupplyRange)
	if len(override.SupplyDemandCurve) > 0 {
		out.SupplyDemandCurve = append(valuation.Curve(nil), override.SupplyDemandCurve...)
	}
	if override.HighDemandRatio != 0 {
		out.HighDemandRatio = override.HighDemandRatio
	}
	if override.LowDemandRatio != 0 {
		out.LowDemandRatio = override.LowDemandRatio
	}
	if len(override.MarketPositionCurve) > 0 {
		out.MarketPositionCurve = append(valuation.Curve(nil), override.MarketPositionCurve...)
	}
	out.MarketRateBand = mergeRange(out.MarketRateBand, override.MarketRateBand)
	if override.MinimumOffer != "" {
		d, err := decimal.NewFromString(override.MinimumOffer)
		if err != nil {
			return out, errors.Wrap(err, "minimum_offer")
		}
		out.MinimumOffer = d
	}
	if override.MaximumOffer != "" {
		d, err := decimal.NewFromString(override.MaximumOffer)
		if err != nil {
			return out, errors.Wrap(err, "maximum_offer")
		}
		out.MaximumOffer = d
	}
	return out, nil
}

func mergeRange(base valuation.Range, override RangeConfig) valuation.Range {
	if override.Min != 0 {
		base.Min = override.Min
	}
	if override.Max != 0 {
		base.Max = override.Max
	}
	return base
}

func parseMonths(raw []string) ([]time.Month, error) {
	out := make([]time.Month, 0, len(raw))
	for _, r := range raw {
		m, err := ParseMonth(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseMonth accepts "sep", "September" or the 1-based number "9".
func ParseMonth(raw string) (time.Month, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, errors.Errorf("unknown month %q", raw)
	}
	return time.Month(n), nil
}
