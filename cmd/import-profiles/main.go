package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"tradein-valuation/internal/config"
	"tradein-valuation/internal/data"
	"tradein-valuation/pkg/logger"
)

func main() {
	var (
		envFile    = flag.String("env", "", "Path to a .env file (MONGODB_URI, MONGODB_DB_NAME)")
		dir        = flag.String("dir", "", "Profile directory to import (default: PROFILE_DIR)")
		exportPath = flag.String("export", "", "Instead of importing, write the active Mongo catalog to this YAML file")
		dryRun     = flag.Bool("dry-run", false, "Parse and validate the files without writing to Mongo")
	)
	flag.Parse()

	settings, err := config.LoadEnv(*envFile)
	if err != nil {
		panic(err)
	}
	log := logger.Must(logger.New(settings.Server.Env)).Named("import-profiles")
	defer func() { _ = log.Sync() }()

	if *dir == "" {
		*dir = settings.Profiles.Dir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *dryRun {
		// Inactive entries are validated and imported too so deactivations propagate.
		profiles, err := data.LoadProfileDir(*dir)
		if err != nil {
			log.Fatal("failed to load profiles", zap.String("dir", *dir), zap.Error(err))
		}
		log.Info("profiles validated", zap.String("dir", *dir), zap.Int("profiles", len(profiles)))
		return
	}

	client, err := data.ConnectMongo(ctx, settings.MongoDB.URI)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	store := data.NewMongoStore(client, settings.MongoDB.DBName, log.Named("store.mongo"))

	if *exportPath != "" {
		profiles, err := store.List(ctx)
		if err != nil {
			log.Fatal("failed to list profiles", zap.Error(err))
		}
		if err := data.SaveProfileFile(*exportPath, profiles); err != nil {
			log.Fatal("failed to export profiles", zap.String("path", *exportPath), zap.Error(err))
		}
		log.Info("profiles exported", zap.String("path", *exportPath), zap.Int("profiles", len(profiles)))
		return
	}

	profiles, err := data.LoadProfileDir(*dir)
	if err != nil {
		log.Fatal("failed to load profiles", zap.String("dir", *dir), zap.Error(err))
	}
	log.Info("importing profiles",
		zap.String("dir", *dir),
		zap.String("db", settings.MongoDB.DBName),
		zap.Int("profiles", len(profiles)))

	now := time.Now()
	for _, p := range profiles {
		if err := store.Upsert(ctx, p, now); err != nil {
			log.Fatal("failed to import profile", zap.String("device_id", p.ID), zap.Error(err))
		}
	}
	log.Info("profiles imported", zap.Int("profiles", len(profiles)))
}
