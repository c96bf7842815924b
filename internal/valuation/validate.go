package valuation

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"tradein-valuation/internal/model"
)

// ValidateRequest rejects malformed input before any lookup happens.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.DeviceID) == "" {
		return errors.Wrap(model.ErrInvalidRequest, "device id is required")
	}
	if req.Now.IsZero() {
		return errors.Wrap(model.ErrInvalidRequest, "valuation time is required")
	}
	if !req.Condition.Valid() {
		return errors.Wrapf(model.ErrInvalidCondition, "%q is not one of excellent, good, fair, poor", req.Condition)
	}
	if _, err := req.Storage.CapacityMB(); err != nil {
		return errors.Wrapf(model.ErrInvalidStorage, "%q is not a storage label", req.Storage)
	}
	return nil
}

// validateProfile catches catalog entries that would poison the arithmetic.
func validateProfile(p *model.DeviceMarketProfile, deviceID string) error {
	if p == nil || !p.Active {
		return errors.Wrapf(model.ErrNotFound, "no active market profile for %q", deviceID)
	}
	bad := func(format string, args ...any) error {
		return errors.Wrapf(model.ErrComputation, "profile %q: "+format, append([]any{p.ID}, args...)...)
	}
	switch {
	case p.ReleaseDate.IsZero():
		return bad("release date is missing")
	case !p.BasePrice.IsPositive():
		return bad("base price %s must be > 0", p.BasePrice)
	case !p.BaselineCompetitorPrice.IsPositive():
		return bad("competitor price %s must be > 0", p.BaselineCompetitorPrice)
	case !inUnit(p.BaselineMarketDemand):
		return bad("baseline demand %v outside [0,1]", p.BaselineMarketDemand)
	case !inUnit(p.BaselineSupplyLevel):
		return bad("baseline supply %v outside [0,1]", p.BaselineSupplyLevel)
	case len(p.StorageOptions) == 0:
		return bad("no storage options")
	}
	return nil
}

func inUnit(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 1
}

// checkFactors verifies every intermediate figure against its documented
// bounds. A violation fails the request; nothing is clamped here.
func (t *Tables) checkFactors(r *Result) error {
	sdLo, sdHi := t.SupplyDemandCurve.Bounds()
	mpLo, mpHi := t.MarketPositionCurve.Bounds()
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"months since release", r.MonthsSinceRelease, r.MonthsSinceRelease >= 0},
		{"time decay", r.TimeDecay, r.TimeDecay >= t.DecayFloor && r.TimeDecay <= 1},
		{"market demand", r.MarketDemand, t.DemandRange.contains(r.MarketDemand / 100)},
		{"supply level", r.SupplyLevel, t.SupplyRange.contains(r.SupplyLevel / 100)},
		{"supply/demand ratio", r.SupplyDemandRatio, r.SupplyDemandRatio > 0},
		{"supply/demand multiplier", r.SupplyDemandMultiplier, r.SupplyDemandMultiplier >= sdLo && r.SupplyDemandMultiplier <= sdHi},
		{"market position", r.MarketPosition, r.MarketPosition > 0},
		{"market position multiplier", r.MarketPositionMultiplier, r.MarketPositionMultiplier >= mpLo && r.MarketPositionMultiplier <= mpHi},
		{"seasonal multiplier", r.SeasonalMultiplier, r.SeasonalMultiplier > 0},
		{"storage value", r.StorageValue, r.StorageValue >= 1},
		{"condition multiplier", r.ConditionMultiplier, r.ConditionMultiplier > 0 && r.ConditionMultiplier <= 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || !c.ok {
			return errors.Wrapf(model.ErrComputation, "%s out of bounds: %v", c.name, c.v)
		}
	}
	if r.BasePrice.IsNegative() || r.CompetitorPrice.IsNegative() {
		return errors.Wrap(model.ErrComputation, "negative price in breakdown")
	}
	return nil
}
