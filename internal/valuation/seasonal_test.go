package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTables_Seasonal_LaunchBeatsHoliday(t *testing.T) {
	tables := DefaultTables()

	f, name := tables.Seasonal(date(2026, time.September, 30))
	assert.Equal(t, 1.20, f)
	assert.Equal(t, "launch", name)

	f, name = tables.Seasonal(date(2026, time.November, 1))
	assert.Equal(t, 1.15, f)
	assert.Equal(t, "holiday", name)

	f, name = tables.Seasonal(date(2026, time.April, 1))
	assert.Equal(t, 1.00, f)
	assert.Equal(t, DefaultSeasonName, name)
}

func TestTables_Seasonal_UsesLocationOfNow(t *testing.T) {
	tables := DefaultTables()
	tokyo := time.FixedZone("JST", 9*60*60)

	// 2026-08-31 20:00 UTC is already September in Tokyo.
	instant := time.Date(2026, time.August, 31, 20, 0, 0, 0, time.UTC)
	f, _ := tables.Seasonal(instant)
	assert.Equal(t, 0.95, f)
	f, _ = tables.Seasonal(instant.In(tokyo))
	assert.Equal(t, 1.20, f)
}
