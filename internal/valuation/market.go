package valuation

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradein-valuation/internal/model"
)

// DemandSignal labels the supply/demand ratio for display.
type DemandSignal string

const (
	DemandHigh     DemandSignal = "high_demand"
	DemandBalanced DemandSignal = "balanced"
	DemandLow      DemandSignal = "low_demand"
)

// MarketSignal labels our price relative to competitors.
type MarketSignal string

const (
	MarketAbove MarketSignal = "above_market"
	MarketRate  MarketSignal = "market_rate"
	MarketBelow MarketSignal = "below_market"
)

// Market holds the supply/demand and competitive-position factors.
type Market struct {
	MarketDemand           float64
	SupplyLevel            float64
	SupplyDemandRatio      float64
	SupplyDemandMultiplier float64
	DemandSignal           DemandSignal

	CompetitorPrice          decimal.Decimal
	MarketPosition           float64
	MarketPositionMultiplier float64
	MarketSignal             MarketSignal
}

// Market combines the profile baselines with the age factors. The demand and
// supply floors keep the ratio finite for brand-new or scarce devices.
func (t *Tables) Market(p *model.DeviceMarketProfile, d Decay, seasonal float64, ageAdjusted decimal.Decimal) (Market, error) {
	m := Market{
		MarketDemand: t.DemandRange.clamp(p.BaselineMarketDemand * d.DemandAgeFactor),
		SupplyLevel:  t.SupplyRange.clamp(p.BaselineSupplyLevel * d.SupplyAgeFactor),
	}
	m.SupplyDemandRatio = m.MarketDemand / m.SupplyLevel
	m.SupplyDemandMultiplier = t.SupplyDemandCurve.At(m.SupplyDemandRatio)
	switch {
	case m.SupplyDemandRatio > t.HighDemandRatio:
		m.DemandSignal = DemandHigh
	case m.SupplyDemandRatio < t.LowDemandRatio:
		m.DemandSignal = DemandLow
	default:
		m.DemandSignal = DemandBalanced
	}

	m.CompetitorPrice = p.BaselineCompetitorPrice.
		Mul(decimal.NewFromFloat(d.TimeDecay)).
		Mul(decimal.NewFromFloat(seasonal))
	if !m.CompetitorPrice.IsPositive() {
		return Market{}, errors.Wrapf(model.ErrComputation, "competitor price %s is not positive", m.CompetitorPrice)
	}
	m.MarketPosition = ageAdjusted.Div(m.CompetitorPrice).InexactFloat64()
	m.MarketPositionMultiplier = t.MarketPositionCurve.At(m.MarketPosition)
	switch {
	case m.MarketPosition > t.MarketRateBand.Max:
		m.MarketSignal = MarketAbove
	case m.MarketPosition < t.MarketRateBand.Min:
		m.MarketSignal = MarketBelow
	default:
		m.MarketSignal = MarketRate
	}
	return m, nil
}
