package valuation

import (
	"math"
	"time"
)

// Decay is the age-driven part of a valuation.
type Decay struct {
	MonthsSinceRelease float64
	TimeDecay          float64
	DemandAgeFactor    float64
	SupplyAgeFactor    float64
}

// MonthsSinceRelease counts calendar months from release to now, with the
// partial month expressed as the elapsed fraction of that month. A release
// date in the future yields 0.
func MonthsSinceRelease(release, now time.Time) float64 {
	release, now = release.UTC(), now.UTC()
	if !now.After(release) {
		return 0
	}
	whole := (now.Year()-release.Year())*12 + int(now.Month()-release.Month())
	anchor := release.AddDate(0, whole, 0)
	for whole > 0 && anchor.After(now) {
		whole--
		anchor = release.AddDate(0, whole, 0)
	}
	next := release.AddDate(0, whole+1, 0)
	frac := float64(now.Sub(anchor)) / float64(next.Sub(anchor))
	return float64(whole) + frac
}

// Decay derives the linear price decay and the stepped demand/supply age
// factors. The steps follow product-cycle milestones rather than a smooth
// curve.
func (t *Tables) Decay(release, now time.Time) Decay {
	months := MonthsSinceRelease(release, now)
	d := Decay{
		MonthsSinceRelease: months,
		TimeDecay:          math.Max(t.DecayFloor, 1-months*t.MonthlyDecayRate),
	}
	step := t.AgeFallback
	for _, s := range t.AgeSteps {
		if months <= s.MaxMonths {
			step = s
			break
		}
	}
	d.DemandAgeFactor = step.DemandFactor
	d.SupplyAgeFactor = step.SupplyFactor
	return d
}
