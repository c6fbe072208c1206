package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Validation modes, one per command family.
const (
	ModeMidpoint = "midpoint"
	ModeSearch   = "search"
	ModeLookup   = "lookup"
	ModeServe    = "serve"
	ModeCache    = "cache"
)

// Config holds the full application configuration.
type Config struct {
	Google   GoogleConfig   `yaml:"google" mapstructure:"google"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Location LocationConfig `yaml:"location" mapstructure:"location"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Maps Platform settings.
type GoogleConfig struct {
	APIKey        string  `yaml:"api_key" mapstructure:"api_key"`
	PlacesBaseURL string  `yaml:"places_base_url" mapstructure:"places_base_url"`
	MapsBaseURL   string  `yaml:"maps_base_url" mapstructure:"maps_base_url"`
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxResults    int     `yaml:"max_results" mapstructure:"max_results"`
}

// Timeout returns the per-request timeout.
func (g GoogleConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// SearchConfig configures the nearby-search orchestrator.
type SearchConfig struct {
	DefaultCategories []string  `yaml:"default_categories" mapstructure:"default_categories"`
	MinRadiusM        float64   `yaml:"min_radius_m" mapstructure:"min_radius_m"`
	MaxRadiusM        float64   `yaml:"max_radius_m" mapstructure:"max_radius_m"`
	EscalationRadiiM  []float64 `yaml:"escalation_radii_m" mapstructure:"escalation_radii_m"`
	Concurrency       int       `yaml:"concurrency" mapstructure:"concurrency"`
	DefaultSort       string    `yaml:"default_sort" mapstructure:"default_sort"`
}

// CacheConfig configures the nearby-search hot cache.
type CacheConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLSecs  int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

// StoreConfig configures the durable lookup cache.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// TTL returns the row lifetime.
func (s StoreConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// LocationConfig is the static fix served as the "current location".
type LocationConfig struct {
	Latitude    *float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude   *float64 `yaml:"longitude" mapstructure:"longitude"`
	Name        string   `yaml:"name" mapstructure:"name"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Configured reports whether both coordinates are set.
func (l LocationConfig) Configured() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Timeout returns the fix timeout.
func (l LocationConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSecs) * time.Second
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	SessionTTLMins int      `yaml:"session_ttl_mins" mapstructure:"session_ttl_mins"`
}

// SessionTTL returns the idle lifetime of an API session.
func (s ServerConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMins) * time.Minute
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HALFWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("google.api_key", "HALFWAY_GOOGLE_API_KEY", "GOOGLE_MAPS_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}
	if err := v.BindEnv("location.latitude", "HALFWAY_LOCATION_LATITUDE"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}
	if err := v.BindEnv("location.longitude", "HALFWAY_LOCATION_LONGITUDE"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	// Defaults
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.maps_base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("google.rate_limit", 10)
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("google.max_results", 20)
	v.SetDefault("search.default_categories", []string{"cafe", "restaurant", "bar"})
	v.SetDefault("search.min_radius_m", 3000)
	v.SetDefault("search.max_radius_m", 50000)
	v.SetDefault("search.escalation_radii_m", []float64{50000})
	v.SetDefault("search.concurrency", 0)
	v.SetDefault("search.default_sort", "distance")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl_secs", 300)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "halfway.db")
	v.SetDefault("store.ttl_hours", 24)
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("location.name", "Current Location")
	v.SetDefault("location.timeout_secs", 15)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.session_ttl_mins", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command family depends on.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case ModeMidpoint, ModeCache:
	case ModeSearch, ModeLookup:
		if c.Google.APIKey == "" {
			problems = append(problems, "google.api_key is required")
		}
	case ModeServe:
		if c.Google.APIKey == "" {
			problems = append(problems, "google.api_key is required")
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == ModeSearch || mode == ModeServe {
		if c.Search.MinRadiusM <= 0 {
			problems = append(problems, "search.min_radius_m must be > 0")
		}
		if c.Search.MinRadiusM > c.Search.MaxRadiusM {
			problems = append(problems, "search.min_radius_m must be <= search.max_radius_m")
		}
		if c.Search.Concurrency < 0 {
			problems = append(problems, "search.concurrency must be >= 0")
		}
		switch strings.ToLower(c.Cache.Driver) {
		case "memory", "redis", "none", "":
		default:
			problems = append(problems, "cache.driver must be memory, redis or none")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
