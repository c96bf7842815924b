package valuation

import "time"

// DefaultSeasonName labels months no window covers.
const DefaultSeasonName = "baseline"

// Seasonal returns the factor for the calendar month of now (in now's own
// location) and the name of the window that produced it.
func (t *Tables) Seasonal(now time.Time) (float64, string) {
	m := now.Month()
	for _, w := range t.Seasons {
		if w.contains(m) {
			return w.Factor, w.Name
		}
	}
	return t.DefaultSeasonal, DefaultSeasonName
}
