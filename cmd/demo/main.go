package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tradein-valuation/internal/config"
	"tradein-valuation/internal/data"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/report"
	"tradein-valuation/internal/valuation"
)

// Demo:
// - Load the example profile catalog
// - Value one device on the 15th of every month from release onwards
// - Show how decay, age steps and seasonality shape the offer over time
func main() {
	profileDir := flag.String("profiles", "examples/profiles", "Profile directory")
	cfgPath := flag.String("config", "", "Path to valuation tables YAML (optional)")
	deviceID := flag.String("device", "apple-iphone-16-pro", "Device id")
	storage := flag.String("storage", "256GB", "Storage tier")
	condition := flag.String("condition", "good", "Condition tier")
	months := flag.Int("months", 30, "Number of months to simulate")
	outCSV := flag.String("out", "", "Optional path to write the trajectory CSV (e.g. results/trajectory.csv)")
	flag.Parse()

	tables, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	engine, err := valuation.NewEngine(*tables)
	if err != nil {
		panic(err)
	}
	store, err := data.NewFileStore(*profileDir, nil)
	if err != nil {
		panic(err)
	}
	profiles, err := store.List(context.Background())
	if err != nil {
		panic(err)
	}
	var p *model.DeviceMarketProfile
	for _, candidate := range profiles {
		if candidate.ID == *deviceID {
			p = candidate
		}
	}
	if p == nil {
		panic(fmt.Sprintf("device %q not in %s", *deviceID, *profileDir))
	}

	tier, err := model.ParseStorageTier(*storage)
	if err != nil {
		panic(err)
	}
	cond, err := model.ParseCondition(*condition)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s %s %s, base price %s\n\n", p.DisplayName(), tier, cond, p.BasePrice.StringFixed(2))
	fmt.Printf("%-10s %-7s %-7s %-6s %-6s %-13s %-8s\n", "month", "age", "decay", "s/d", "mpos", "season", "offer")

	start := time.Date(p.ReleaseDate.Year(), p.ReleaseDate.Month(), 15, 0, 0, 0, 0, time.UTC)
	var trajectory []*valuation.Result
	for i := 0; i <= *months; i++ {
		now := start.AddDate(0, i, 0)
		res, err := engine.Compute(p, valuation.Request{DeviceID: p.ID, Storage: tier, Condition: cond, Now: now})
		if err != nil {
			panic(err)
		}
		trajectory = append(trajectory, res)
		fmt.Printf("%-10s %-7.1f %-7.2f %-6.3f %-6.3f %-13s %-8s\n",
			now.Format("2006-01"),
			res.MonthsSinceRelease,
			res.TimeDecay,
			res.SupplyDemandMultiplier,
			res.MarketPositionMultiplier,
			res.Season,
			res.FinalValue)
	}

	if *outCSV != "" {
		if err := report.WriteOffersCSVFile(*outCSV, trajectory); err != nil {
			panic(err)
		}
		fmt.Fprintf(os.Stderr, "\nWrote %d rows to %s\n", len(trajectory), *outCSV)
	}
}
