package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"tradein-valuation/internal/valuation"
)

var offerHeader = []string{
	"device_id",
	"brand",
	"model",
	"storage",
	"condition",
	"valued_at",
	"final_value",
	"clamped",
	"reference_price",
	"base_price",
	"months_since_release",
	"time_decay",
	"market_demand_pct",
	"supply_level_pct",
	"supply_demand_ratio",
	"supply_demand_multiplier",
	"demand_signal",
	"competitor_price",
	"market_position",
	"market_position_multiplier",
	"market_signal",
	"seasonal_multiplier",
	"season",
	"storage_value",
	"condition_multiplier",
}

// WriteOffersCSV writes one row per offer with the full breakdown.
func WriteOffersCSV(out io.Writer, results []*valuation.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(offerHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.DeviceID,
			r.Brand,
			r.Model,
			r.Storage.String(),
			r.Condition.String(),
			fmtTime(r.ValuedAt),
			r.FinalValue.String(),
			strconv.FormatBool(r.Clamped),
			r.ReferencePrice.StringFixed(2),
			r.BasePrice.StringFixed(2),
			fmtFloat(r.MonthsSinceRelease),
			fmtFloat(r.TimeDecay),
			fmtFloat(r.MarketDemand),
			fmtFloat(r.SupplyLevel),
			fmtFloat(r.SupplyDemandRatio),
			fmtFloat(r.SupplyDemandMultiplier),
			string(r.DemandSignal),
			r.CompetitorPrice.StringFixed(2),
			fmtFloat(r.MarketPosition),
			fmtFloat(r.MarketPositionMultiplier),
			string(r.MarketSignal),
			fmtFloat(r.SeasonalMultiplier),
			r.Season,
			fmtFloat(r.StorageValue),
			fmtFloat(r.ConditionMultiplier),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteOffersCSVFile writes the CSV to path, creating parent directories.
func WriteOffersCSVFile(path string, results []*valuation.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create csv")
	}
	if err := WriteOffersCSV(f, results); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
