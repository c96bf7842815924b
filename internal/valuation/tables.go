package valuation

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradein-valuation/internal/model"
)

// AgeStep applies while monthsSinceRelease <= MaxMonths.
type AgeStep struct {
	MaxMonths    float64
	DemandFactor float64
	SupplyFactor float64
}

// SeasonWindow is a named set of calendar months sharing one factor.
type SeasonWindow struct {
	Name   string
	Months []time.Month
	Factor float64
}

func (w SeasonWindow) contains(m time.Month) bool {
	for _, wm := range w.Months {
		if wm == m {
			return true
		}
	}
	return false
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) clamp(x float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, x))
}

// contains allows a tiny tolerance for values that went through a percent
// conversion.
func (r Range) contains(x float64) bool {
	const eps = 1e-9
	return x >= r.Min-eps && x <= r.Max+eps
}

// Tables holds every business-tunable number the engine uses.
//
// Seasons are evaluated in order and the first window containing the month
// wins; overlapping windows must therefore be listed most specific first.
type Tables struct {
	MonthlyDecayRate float64
	DecayFloor       float64

	AgeSteps    []AgeStep
	AgeFallback AgeStep // used once every step has been passed

	Seasons         []SeasonWindow
	DefaultSeasonal float64

	Conditions map[model.Condition]float64
	Storage    map[model.StorageTier]float64

	DemandRange Range
	SupplyRange Range

	SupplyDemandCurve Curve
	// HighDemandRatio and LowDemandRatio only label the ratio for display.
	HighDemandRatio float64
	LowDemandRatio  float64

	MarketPositionCurve Curve
	// MarketRateBand is the position interval labelled "market rate".
	MarketRateBand Range

	MinimumOffer decimal.Decimal
	// MaximumOffer of zero means no ceiling.
	MaximumOffer decimal.Decimal
}

// DefaultTables returns the production multiplier tables.
func DefaultTables() Tables {
	return Tables{
		MonthlyDecayRate: 0.08,
		DecayFloor:       0.2,
		AgeSteps: []AgeStep{
			{MaxMonths: 6, DemandFactor: 1.3, SupplyFactor: 0.3},
			{MaxMonths: 12, DemandFactor: 1.1, SupplyFactor: 0.6},
			{MaxMonths: 24, DemandFactor: 0.9, SupplyFactor: 0.8},
		},
		AgeFallback: AgeStep{DemandFactor: 0.7, SupplyFactor: 1.0},
		Seasons: []SeasonWindow{
			{Name: "launch", Months: []time.Month{time.September, time.October}, Factor: 1.20},
			{Name: "holiday", Months: []time.Month{time.September, time.October, time.November, time.December}, Factor: 1.15},
			{Name: "post_holiday", Months: []time.Month{time.January, time.February}, Factor: 0.90},
			{Name: "summer", Months: []time.Month{time.June, time.July, time.August}, Factor: 0.95},
		},
		DefaultSeasonal: 1.00,
		Conditions: map[model.Condition]float64{
			model.ConditionExcellent: 1.00,
			model.ConditionGood:      0.80,
			model.ConditionFair:      0.60,
			model.ConditionPoor:      0.30,
		},
		Storage: map[model.StorageTier]float64{
			"16GB":  1.00,
			"32GB":  1.00,
			"64GB":  1.00,
			"128GB": 1.00,
			"256GB": 1.15,
			"512GB": 1.35,
			"1TB":   1.60,
			"2TB":   1.85,
		},
		DemandRange: Range{Min: 0.05, Max: 1.0},
		SupplyRange: Range{Min: 0.10, Max: 1.0},
		SupplyDemandCurve: Curve{
			{X: 0.5, Y: 0.85},
			{X: 1.0, Y: 1.00},
			{X: 1.5, Y: 1.10},
			{X: 3.0, Y: 1.20},
		},
		HighDemandRatio: 1.5,
		LowDemandRatio:  1.0,
		MarketPositionCurve: Curve{
			{X: 0.5, Y: 1.06},
			{X: 0.95, Y: 1.00},
			{X: 1.05, Y: 1.00},
			{X: 1.5, Y: 0.92},
		},
		MarketRateBand: Range{Min: 0.95, Max: 1.05},
		MinimumOffer:   decimal.Zero,
		MaximumOffer:   decimal.Zero,
	}
}

// Validate checks the invariants every factor lookup relies on.
func (t *Tables) Validate() error {
	if t == nil {
		return errors.New("tables are nil")
	}
	if t.MonthlyDecayRate < 0 {
		return errors.New("monthly decay rate must be >= 0")
	}
	if t.DecayFloor <= 0 || t.DecayFloor > 1 {
		return errors.New("decay floor must be in (0, 1]")
	}
	prev := math.Inf(-1)
	for i, s := range t.AgeSteps {
		if s.MaxMonths <= prev {
			return errors.Errorf("age step %d: max months must be increasing", i)
		}
		if s.DemandFactor <= 0 || s.SupplyFactor <= 0 {
			return errors.Errorf("age step %d: factors must be > 0", i)
		}
		prev = s.MaxMonths
	}
	if t.AgeFallback.DemandFactor <= 0 || t.AgeFallback.SupplyFactor <= 0 {
		return errors.New("age fallback factors must be > 0")
	}
	for _, w := range t.Seasons {
		if w.Factor <= 0 {
			return errors.Errorf("season %q: factor must be > 0", w.Name)
		}
		if len(w.Months) == 0 {
			return errors.Errorf("season %q: no months", w.Name)
		}
		for _, m := range w.Months {
			if m < time.January || m > time.December {
				return errors.Errorf("season %q: bad month %d", w.Name, m)
			}
		}
	}
	if t.DefaultSeasonal <= 0 {
		return errors.New("default seasonal factor must be > 0")
	}
	for _, c := range model.Conditions() {
		m, ok := t.Conditions[c]
		if !ok {
			return errors.Errorf("condition %q has no multiplier", c)
		}
		if m <= 0 || m > 1 {
			return errors.Errorf("condition %q: multiplier must be in (0, 1]", c)
		}
	}
	prevCond := math.Inf(1)
	for _, c := range model.Conditions() {
		if t.Conditions[c] > prevCond {
			return errors.Errorf("condition %q is worth more than a better grade", c)
		}
		prevCond = t.Conditions[c]
	}
	if err := t.validateStorage(); err != nil {
		return err
	}
	if t.DemandRange.Min <= 0 || t.DemandRange.Min > t.DemandRange.Max {
		return errors.New("demand range must satisfy 0 < min <= max")
	}
	if t.SupplyRange.Min <= 0 || t.SupplyRange.Min > t.SupplyRange.Max {
		return errors.New("supply range must satisfy 0 < min <= max")
	}
	if err := t.SupplyDemandCurve.validate(); err != nil {
		return errors.Wrap(err, "supply/demand curve")
	}
	if !t.SupplyDemandCurve.nonDecreasing() {
		return errors.New("supply/demand curve must be non-decreasing")
	}
	if math.Abs(t.SupplyDemandCurve.At(1)-1) > 1e-9 {
		return errors.New("supply/demand curve must map ratio 1 to multiplier 1")
	}
	if t.LowDemandRatio > t.HighDemandRatio {
		return errors.New("low demand ratio must not exceed high demand ratio")
	}
	if err := t.MarketPositionCurve.validate(); err != nil {
		return errors.Wrap(err, "market position curve")
	}
	if !t.MarketPositionCurve.nonIncreasing() {
		return errors.New("market position curve must be non-increasing")
	}
	if t.MarketRateBand.Min > 1 || t.MarketRateBand.Max < 1 {
		return errors.New("market rate band must contain 1")
	}
	if math.Abs(t.MarketPositionCurve.At(1)-1) > 1e-9 {
		return errors.New("market position curve must map position 1 to multiplier 1")
	}
	if t.MinimumOffer.IsNegative() {
		return errors.New("minimum offer must be >= 0")
	}
	if t.MaximumOffer.IsNegative() {
		return errors.New("maximum offer must be >= 0")
	}
	if t.MaximumOffer.IsPositive() && t.MaximumOffer.LessThan(t.MinimumOffer) {
		return errors.New("maximum offer must not be below minimum offer")
	}
	return nil
}

// validateStorage requires multipliers >= 1 that never shrink as capacity grows.
func (t *Tables) validateStorage() error {
	if len(t.Storage) == 0 {
		return errors.New("storage table is empty")
	}
	tiers := make([]model.StorageTier, 0, len(t.Storage))
	for tier, m := range t.Storage {
		if _, err := tier.CapacityMB(); err != nil {
			return errors.Wrapf(err, "storage tier %q", tier)
		}
		if m < 1 {
			return errors.Errorf("storage tier %q: multiplier must be >= 1", tier)
		}
		tiers = append(tiers, tier)
	}
	model.SortStorageTiers(tiers)
	for i := 1; i < len(tiers); i++ {
		if t.Storage[tiers[i]] < t.Storage[tiers[i-1]] {
			return errors.Errorf("storage tier %q is worth less than %q", tiers[i], tiers[i-1])
		}
	}
	return nil
}

// ConditionMultiplier looks up the grade multiplier.
func (t *Tables) ConditionMultiplier(c model.Condition) (float64, error) {
	if !c.Valid() {
		return 0, errors.Wrapf(model.ErrInvalidCondition, "%q", c)
	}
	m, ok := t.Conditions[c]
	if !ok {
		return 0, errors.Wrapf(model.ErrComputation, "no multiplier configured for condition %q", c)
	}
	return m, nil
}

// StorageMultiplier looks up the capacity multiplier. A tier the device offers
// but the table lacks is a configuration bug, not bad input.
func (t *Tables) StorageMultiplier(tier model.StorageTier) (float64, error) {
	m, ok := t.Storage[tier]
	if !ok {
		return 0, errors.Wrapf(model.ErrComputation, "no multiplier configured for storage %q", tier)
	}
	return m, nil
}
