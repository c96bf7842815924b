package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"tradein-valuation/internal/app"
	"tradein-valuation/internal/config"
	"tradein-valuation/internal/model"
	"tradein-valuation/internal/report"
	"tradein-valuation/internal/valuation"
	"tradein-valuation/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "quote":
		err = cmdQuote(os.Args[2:])
	case "matrix":
		err = cmdMatrix(os.Args[2:])
	case "devices":
		err = cmdDevices(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli quote --device apple-iphone-16 --storage 256GB --condition good [--now 2026-10-15T00:00:00Z]")
	fmt.Println("  cli matrix --device apple-iphone-16 --out results/offers.csv [--now ...]")
	fmt.Println("  cli devices")
	fmt.Println("")
	fmt.Println("common flags:")
	fmt.Println("  --env .env            env file (PROFILE_SOURCE, MONGODB_URI, ...)")
	fmt.Println("  --profiles DIR        profile directory, forces the file source")
	fmt.Println("  --config FILE         valuation tables YAML (default: VALUATION_CONFIG or built-in)")
}

type common struct {
	envFile  *string
	profiles *string
	cfgPath  *string
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		envFile:  fs.String("env", "", "Path to a .env file"),
		profiles: fs.String("profiles", "", "Profile directory (forces the file source)"),
		cfgPath:  fs.String("config", "", "Valuation tables YAML"),
	}
}

type session struct {
	backend *app.Backend
	svc     *valuation.Service
}

func (c common) open(ctx context.Context) (*session, error) {
	settings, err := config.LoadEnv(*c.envFile)
	if err != nil {
		return nil, err
	}
	if *c.profiles != "" {
		settings.Profiles.Source = "file"
		settings.Profiles.Dir = *c.profiles
	}
	if *c.cfgPath != "" {
		settings.ValuationConfig = *c.cfgPath
	}
	// CLI output goes to stdout; keep the log to warnings on stderr.
	base, err := logger.New(settings.Server.Env)
	if err != nil {
		return nil, err
	}
	log := base.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

	tables, err := config.Load(settings.ValuationConfig)
	if err != nil {
		return nil, err
	}
	engine, err := valuation.NewEngine(*tables)
	if err != nil {
		return nil, err
	}
	backend, err := app.Open(ctx, settings, log)
	if err != nil {
		return nil, err
	}
	svc := valuation.NewService(backend.Store, engine, settings.Profiles.LookupTimeout, log.Named("svc.valuation"))
	return &session{backend: backend, svc: svc}, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.backend.Close(ctx)
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC3339: %w", err)
	}
	return t, nil
}

func cmdQuote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	c := commonFlags(fs)
	device := fs.String("device", "", "Device id")
	storage := fs.String("storage", "", "Storage tier, e.g. 256GB")
	condition := fs.String("condition", "", "excellent, good, fair or poor")
	nowRaw := fs.String("now", "", "Valuation instant (RFC3339, default: now)")
	_ = fs.Parse(args)

	if *device == "" || *storage == "" || *condition == "" {
		return fmt.Errorf("--device, --storage and --condition are required")
	}
	now, err := parseNow(*nowRaw)
	if err != nil {
		return err
	}
	tier, err := model.ParseStorageTier(*storage)
	if err != nil {
		return err
	}
	cond, err := model.ParseCondition(*condition)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.svc.Quote(ctx, valuation.Request{DeviceID: *device, Storage: tier, Condition: cond, Now: now})
	if err != nil {
		return err
	}
	printBreakdown(res)
	return nil
}

func cmdMatrix(args []string) error {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	c := commonFlags(fs)
	device := fs.String("device", "", "Device id")
	outPath := fs.String("out", "", "Output CSV path (default: stdout)")
	nowRaw := fs.String("now", "", "Valuation instant (RFC3339, default: now)")
	_ = fs.Parse(args)

	if *device == "" {
		return fmt.Errorf("--device is required")
	}
	now, err := parseNow(*nowRaw)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	results, err := s.svc.Offers(ctx, *device, now)
	if err != nil {
		return err
	}
	if *outPath == "" {
		return report.WriteOffersCSV(os.Stdout, results)
	}
	if err := report.WriteOffersCSVFile(*outPath, results); err != nil {
		return err
	}
	fmt.Printf("Wrote %d offers to %s\n", len(results), *outPath)
	return nil
}

func cmdDevices(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	c := commonFlags(fs)
	_ = fs.Parse(args)

	ctx := context.Background()
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	profiles, err := s.backend.Store.List(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%-28s %-28s %-12s %-10s %s\n", "id", "name", "released", "base", "storage")
	for _, p := range profiles {
		tiers := make([]string, len(p.StorageOptions))
		for i, t := range p.StorageOptions {
			tiers[i] = t.String()
		}
		fmt.Printf("%-28s %-28s %-12s %-10s %s\n",
			p.ID, p.DisplayName(), p.ReleaseDate.Format("2006-01-02"),
			p.BasePrice.StringFixed(2), strings.Join(tiers, ","))
	}
	return nil
}

func printBreakdown(r *valuation.Result) {
	fmt.Printf("%s %s %s (%s) valued at %s\n", r.Brand, r.Model, r.Storage, r.Condition, r.ValuedAt.Format(time.RFC3339))
	clamped := ""
	if r.Clamped {
		clamped = " (clamped to offer bounds)"
	}
	fmt.Printf("Offer: %s%s\n", r.FinalValue, clamped)
	fmt.Println("")
	fmt.Printf("  %-28s %s\n", "reference price", r.ReferencePrice.StringFixed(2))
	fmt.Printf("  %-28s %.2f\n", "months since release", r.MonthsSinceRelease)
	fmt.Printf("  %-28s %.4f\n", "time decay", r.TimeDecay)
	fmt.Printf("  %-28s %s\n", "base price (age adjusted)", r.BasePrice.StringFixed(2))
	fmt.Printf("  %-28s %.1f%%\n", "market demand", r.MarketDemand)
	fmt.Printf("  %-28s %.1f%%\n", "supply level", r.SupplyLevel)
	fmt.Printf("  %-28s %.4f (%s)\n", "supply/demand ratio", r.SupplyDemandRatio, r.DemandSignal)
	fmt.Printf("  %-28s %.4f\n", "supply/demand multiplier", r.SupplyDemandMultiplier)
	fmt.Printf("  %-28s %s\n", "competitor price", r.CompetitorPrice.StringFixed(2))
	fmt.Printf("  %-28s %.4f (%s)\n", "market position", r.MarketPosition, r.MarketSignal)
	fmt.Printf("  %-28s %.4f\n", "market position multiplier", r.MarketPositionMultiplier)
	fmt.Printf("  %-28s %.2f (%s)\n", "seasonal multiplier", r.SeasonalMultiplier, r.Season)
	fmt.Printf("  %-28s %.2f\n", "storage value", r.StorageValue)
	fmt.Printf("  %-28s %.2f\n", "condition multiplier", r.ConditionMultiplier)
}
