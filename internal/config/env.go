package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Server    ServerSettings
	Profiles  ProfileSettings
	Cache     CacheSettings
	MongoDB   MongoDBSettings
	Catalog   CatalogSettings
	RateLimit RateLimitSettings
	TradeIns  TradeInSettings

	// ValuationConfig is an optional YAML file overriding the default tables.
	ValuationConfig string
}

// ServerSettings holds HTTP server related options.
type ServerSettings struct {
	Port        string
	Env         string
	CORSOrigins []string
}

// ProfileSettings selects and tunes the market profile backend.
type ProfileSettings struct {
	Source        string // file, mongo or http
	Dir           string
	LookupTimeout time.Duration
	ReloadCron    string // file source only; empty disables reloads
}

// CacheSettings configures the profile cache in front of the backend.
type CacheSettings struct {
	Kind      string // memory, redis or none
	TTL       time.Duration
	RedisAddr string
}

// MongoDBSettings holds settings for MongoDB.
type MongoDBSettings struct {
	URI    string
	DBName string
}

// CatalogSettings points at the remote catalog service for the http source.
type CatalogSettings struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitSettings bounds request throughput on the public API.
type RateLimitSettings struct {
	RPS   float64
	Burst int
}

// TradeInSettings selects where accepted offers are stored.
type TradeInSettings struct {
	Store string // memory or mongo
}

// LoadEnv reads environment variables (optionally from the provided file)
// and materializes Settings.
func LoadEnv(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed loading env file %s", envFile)
		}
	} else {
		// A missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	var errs []string
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, key+": "+err.Error())
			return fallback
		}
		return d
	}
	number := func(key string, fallback float64) float64 {
		raw := os.Getenv(key)
		if raw == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, key+": "+err.Error())
			return fallback
		}
		return f
	}

	s := &Settings{
		Server: ServerSettings{
			Port:        getenvWithDefault("API_PORT", "8080"),
			Env:         getenvWithDefault("API_ENV", "development"),
			CORSOrigins: splitList(getenvWithDefault("CORS_ORIGINS", "*")),
		},
		Profiles: ProfileSettings{
			Source:        strings.ToLower(getenvWithDefault("PROFILE_SOURCE", "file")),
			Dir:           getenvWithDefault("PROFILE_DIR", "./examples/profiles"),
			LookupTimeout: duration("LOOKUP_TIMEOUT", 3*time.Second),
			ReloadCron:    os.Getenv("CATALOG_RELOAD_CRON"),
		},
		Cache: CacheSettings{
			Kind:      strings.ToLower(getenvWithDefault("PROFILE_CACHE", "memory")),
			TTL:       duration("PROFILE_CACHE_TTL", 5*time.Minute),
			RedisAddr: getenvWithDefault("REDIS_ADDR", "localhost:6379"),
		},
		MongoDB: MongoDBSettings{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "tradein"),
		},
		Catalog: CatalogSettings{
			BaseURL: os.Getenv("CATALOG_BASE_URL"),
			Timeout: duration("CATALOG_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitSettings{
			RPS:   number("RATE_LIMIT_RPS", 20),
			Burst: int(number("RATE_LIMIT_BURST", 40)),
		},
		TradeIns: TradeInSettings{
			Store: strings.ToLower(getenvWithDefault("TRADEIN_STORE", "memory")),
		},
		ValuationConfig: os.Getenv("VALUATION_CONFIG"),
	}
	if len(errs) > 0 {
		return nil, errors.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate ensures the selected backends have what they need.
func (s *Settings) Validate() error {
	if s == nil {
		return errors.New("settings are nil")
	}
	if s.Server.Port == "" {
		return errors.New("API_PORT must be provided")
	}
	switch s.Profiles.Source {
	case "file":
		if s.Profiles.Dir == "" {
			return errors.New("PROFILE_DIR must be provided for the file source")
		}
	case "mongo":
		if s.MongoDB.URI == "" || s.MongoDB.DBName == "" {
			return errors.New("MONGODB_URI and MONGODB_DB_NAME must be provided for the mongo source")
		}
	case "http":
		if s.Catalog.BaseURL == "" {
			return errors.New("CATALOG_BASE_URL must be provided for the http source")
		}
	default:
		return errors.Errorf("PROFILE_SOURCE %q must be file, mongo or http", s.Profiles.Source)
	}
	switch s.Cache.Kind {
	case "memory", "none":
	case "redis":
		if s.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be provided for the redis cache")
		}
	default:
		return errors.Errorf("PROFILE_CACHE %q must be memory, redis or none", s.Cache.Kind)
	}
	// Neither go-cache nor redis expire entries with a TTL <= 0.
	if s.Cache.Kind != "none" && s.Cache.TTL <= 0 {
		return errors.New("PROFILE_CACHE_TTL must be > 0 when a cache is enabled")
	}
	switch s.TradeIns.Store {
	case "memory", "mongo":
	default:
		return errors.Errorf("TRADEIN_STORE %q must be memory or mongo", s.TradeIns.Store)
	}
	if s.Profiles.LookupTimeout <= 0 {
		return errors.New("LOOKUP_TIMEOUT must be > 0")
	}
	if s.RateLimit.RPS < 0 || s.RateLimit.Burst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

// Production reports whether API_ENV=production.
func (s *Settings) Production() bool {
	return s.Server.Env == "production"
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
