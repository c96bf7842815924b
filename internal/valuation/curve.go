package valuation

import (
	"math"

	"github.com/pkg/errors"
)

// Point is one knot of a piecewise-linear curve.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Curve maps a ratio to a multiplier by linear interpolation between knots.
// Outside the first and last knot the curve is flat, so the output is always
// bounded by the knots' Y range.
type Curve []Point

// At evaluates the curve at x.
func (c Curve) At(x float64) float64 {
	if len(c) == 0 {
		return math.NaN()
	}
	if x <= c[0].X {
		return c[0].Y
	}
	last := c[len(c)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 1; i < len(c); i++ {
		lo, hi := c[i-1], c[i]
		if x <= hi.X {
			t := (x - lo.X) / (hi.X - lo.X)
			return lo.Y + (hi.Y-lo.Y)*t
		}
	}
	return last.Y
}

// Bounds returns the smallest and largest multiplier the curve can produce.
func (c Curve) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range c {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

func (c Curve) validate() error {
	if len(c) < 2 {
		return errors.New("curve needs at least two points")
	}
	for i, p := range c {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return errors.Errorf("point %d is not finite", i)
		}
		if p.Y <= 0 {
			return errors.Errorf("point %d: multiplier must be > 0", i)
		}
		if i > 0 && p.X <= c[i-1].X {
			return errors.Errorf("point %d: x must be strictly increasing", i)
		}
	}
	return nil
}

func (c Curve) nonDecreasing() bool {
	for i := 1; i < len(c); i++ {
		if c[i].Y < c[i-1].Y {
			return false
		}
	}
	return true
}

func (c Curve) nonIncreasing() bool {
	for i := 1; i < len(c); i++ {
		if c[i].Y > c[i-1].Y {
			return false
		}
	}
	return true
}
