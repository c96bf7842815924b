package valuation

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradein-valuation/internal/model"
)

// Request is one valuation input. Now is always supplied by the caller.
type Request struct {
	DeviceID  string
	Storage   model.StorageTier
	Condition model.Condition
	Now       time.Time
}

// Result is the offer plus every factor that produced it. Percentages are
// 0..100; all other multipliers are plain ratios.
type Result struct {
	DeviceID  string
	Brand     string
	Model     string
	Storage   model.StorageTier
	Condition model.Condition
	ValuedAt  time.Time

	FinalValue decimal.Decimal
	// Clamped is set when FinalValue was moved onto the offer floor or ceiling.
	Clamped bool

	ReferencePrice decimal.Decimal // profile base price at release
	BasePrice      decimal.Decimal // age-adjusted base price

	MonthsSinceRelease float64
	TimeDecay          float64

	MarketDemand           float64
	SupplyLevel            float64
	SupplyDemandRatio      float64
	SupplyDemandMultiplier float64
	DemandSignal           DemandSignal

	CompetitorPrice          decimal.Decimal
	MarketPosition           float64
	MarketPositionMultiplier float64
	MarketSignal             MarketSignal

	SeasonalMultiplier float64
	Season             string

	StorageValue        float64
	ConditionMultiplier float64
}

// Engine computes trade-in offers. It holds only immutable tables and is safe
// for concurrent use.
type Engine struct {
	tables Tables
}

func NewEngine(tables Tables) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, errors.Wrap(err, "valuation tables invalid")
	}
	return &Engine{tables: tables}, nil
}

// Tables returns the active tables. Callers must not mutate the maps.
func (e *Engine) Tables() Tables {
	return e.tables
}

// Compute values one device. It is a pure function of the profile, the
// request and the tables.
func (e *Engine) Compute(p *model.DeviceMarketProfile, req Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := validateProfile(p, req.DeviceID); err != nil {
		return nil, err
	}
	if !p.HasStorage(req.Storage) {
		return nil, errors.Wrapf(model.ErrInvalidStorage, "%s is not offered for %s", req.Storage, p.DisplayName())
	}

	t := &e.tables
	conditionMult, err := t.ConditionMultiplier(req.Condition)
	if err != nil {
		return nil, err
	}
	storageMult, err := t.StorageMultiplier(req.Storage)
	if err != nil {
		return nil, err
	}

	decay := t.Decay(p.ReleaseDate, req.Now)
	ageAdjusted := p.BasePrice.Mul(decimal.NewFromFloat(decay.TimeDecay))
	seasonal, season := t.Seasonal(req.Now)
	market, err := t.Market(p, decay, seasonal, ageAdjusted)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DeviceID:  req.DeviceID,
		Brand:     p.Brand,
		Model:     p.Model,
		Storage:   req.Storage,
		Condition: req.Condition,
		ValuedAt:  req.Now,

		ReferencePrice: p.BasePrice,
		BasePrice:      ageAdjusted.Round(2),

		MonthsSinceRelease: decay.MonthsSinceRelease,
		TimeDecay:          decay.TimeDecay,

		MarketDemand:           market.MarketDemand * 100,
		SupplyLevel:            market.SupplyLevel * 100,
		SupplyDemandRatio:      market.SupplyDemandRatio,
		SupplyDemandMultiplier: market.SupplyDemandMultiplier,
		DemandSignal:           market.DemandSignal,

		CompetitorPrice:          market.CompetitorPrice.Round(2),
		MarketPosition:           market.MarketPosition,
		MarketPositionMultiplier: market.MarketPositionMultiplier,
		MarketSignal:             market.MarketSignal,

		SeasonalMultiplier: seasonal,
		Season:             season,

		StorageValue:        storageMult,
		ConditionMultiplier: conditionMult,
	}
	if err := t.checkFactors(res); err != nil {
		return nil, err
	}

	factor := market.SupplyDemandMultiplier *
		market.MarketPositionMultiplier *
		seasonal *
		storageMult *
		conditionMult
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return nil, errors.Wrapf(model.ErrComputation, "combined multiplier %v", factor)
	}
	res.FinalValue, res.Clamped = t.boundOffer(ageAdjusted.Mul(decimal.NewFromFloat(factor)).Round(0))
	return res, nil
}

// boundOffer applies the business minimum and optional maximum offer.
func (t *Tables) boundOffer(v decimal.Decimal) (decimal.Decimal, bool) {
	floor := decimal.Max(t.MinimumOffer, decimal.Zero)
	if v.LessThan(floor) {
		return floor, true
	}
	if t.MaximumOffer.IsPositive() && v.GreaterThan(t.MaximumOffer) {
		return t.MaximumOffer, true
	}
	return v, false
}

// Matrix values every storage option against every condition, storage
// ascending by capacity and conditions best first.
func (e *Engine) Matrix(p *model.DeviceMarketProfile, now time.Time) ([]*Result, error) {
	if p == nil {
		return nil, errors.Wrap(model.ErrNotFound, "no market profile")
	}
	tiers := append([]model.StorageTier(nil), p.StorageOptions...)
	model.SortStorageTiers(tiers)

	out := make([]*Result, 0, len(tiers)*len(model.Conditions()))
	for _, tier := range tiers {
		for _, c := range model.Conditions() {
			res, err := e.Compute(p, Request{DeviceID: p.ID, Storage: tier, Condition: c, Now: now})
			if err != nil {
				return nil, errors.Wrapf(err, "%s/%s", tier, c)
			}
			out = append(out, res)
		}
	}
	return out, nil
}
