package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
	"tradein-valuation/internal/valuation"
)

func matrix(t *testing.T) []*valuation.Result {
	t.Helper()
	e, err := valuation.NewEngine(valuation.DefaultTables())
	require.NoError(t, err)
	p := &model.DeviceMarketProfile{
		ID:                      "apple-iphone-17-pro",
		Brand:                   "Apple",
		Model:                   "iPhone 17 Pro",
		ReleaseDate:             time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
		BasePrice:               decimal.NewFromInt(1000),
		BaselineMarketDemand:    0.9,
		BaselineSupplyLevel:     0.3,
		BaselineCompetitorPrice: decimal.NewFromInt(950),
		StorageOptions:          []model.StorageTier{"256GB", "128GB"},
		Active:                  true,
	}
	results, err := e.Matrix(p, time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return results
}

func TestWriteOffersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOffersCSV(&buf, matrix(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+2*4)
	assert.Equal(t, offerHeader, rows[0])
	for _, row := range rows {
		assert.Len(t, row, len(offerHeader))
	}

	assert.Equal(t, "128GB", rows[1][3])
	assert.Equal(t, "excellent", rows[1][4])
	assert.Equal(t, "2026-10-15T00:00:00Z", rows[1][5])

	// 256GB good is the golden offer.
	golden := rows[1+4+1]
	assert.Equal(t, "256GB", golden[3])
	assert.Equal(t, "good", golden[4])
	assert.Equal(t, "1017", golden[6])
	assert.Equal(t, "760.00", golden[9])
	assert.Equal(t, "launch", golden[22])
}

func TestWriteOffersCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "offers.csv")
	require.NoError(t, WriteOffersCSVFile(path, matrix(t)))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "device_id,brand,model")
}
