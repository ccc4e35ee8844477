package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
	"github.com/eugenenazirov/parcel-planner/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultDPMaxCells     = 50_000_000
	defaultDPResolution   = 100
	defaultBnBMaxQueue    = 1_000_000
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	Capacity             float64
	InitialPackages      []knapsack.Item
	DPResolution         float64
	DPMaxCells           int
	BnBStrategy          knapsack.Strategy
	BnBMaxQueue          int
	RedisURL             string
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// SolverOptions translates the solver settings into knapsack options.
func (c Config) SolverOptions() []knapsack.Option {
	return []knapsack.Option{
		knapsack.WithResolution(c.DPResolution),
		knapsack.WithMaxCells(c.DPMaxCells),
		knapsack.WithStrategy(c.BnBStrategy),
		knapsack.WithMaxQueue(c.BnBMaxQueue),
	}
}

// InitialCatalog is the catalog the service starts with.
func (c Config) InitialCatalog() storage.Catalog {
	return storage.Catalog{Packages: c.InitialPackages, Capacity: c.Capacity}
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string          `yaml:"port"`
	Capacity             *float64        `yaml:"capacity"`
	Packages             []knapsack.Item `yaml:"packages"`
	Solver               yamlSolver      `yaml:"solver"`
	RedisURL             string          `yaml:"redis_url"`
	LogLevel             string          `yaml:"log_level"`
	ShutdownGracePeriod  string          `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string          `yaml:"read_header_timeout"`
	WriteTimeout         string          `yaml:"write_timeout"`
	IdleTimeout          string          `yaml:"idle_timeout"`
	EnableRequestLogging *bool           `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit   `yaml:"rate_limit"`
}

// yamlSolver represents the solver section in YAML.
type yamlSolver struct {
	DPResolution float64 `yaml:"dp_resolution"`
	DPMaxCells   *int    `yaml:"dp_max_cells"`
	BnBStrategy  string  `yaml:"bnb_strategy"`
	BnBMaxQueue  *int    `yaml:"bnb_max_queue"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are not set.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	Capacity       *float64
	DPResolution   *float64
	BnBStrategy    *string
	RedisURL       *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	catalog := storage.DefaultCatalog()
	return Config{
		Port:                 defaultPort,
		Capacity:             catalog.Capacity,
		InitialPackages:      catalog.Packages,
		DPResolution:         defaultDPResolution,
		DPMaxCells:           defaultDPMaxCells,
		BnBStrategy:          knapsack.FIFO,
		BnBMaxQueue:          defaultBnBMaxQueue,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}
	if yamlCfg.Capacity != nil {
		cfg.Capacity = *yamlCfg.Capacity
	}
	if len(yamlCfg.Packages) > 0 {
		cfg.InitialPackages = yamlCfg.Packages
	}

	if yamlCfg.Solver.DPResolution > 0 {
		cfg.DPResolution = yamlCfg.Solver.DPResolution
	}
	if yamlCfg.Solver.DPMaxCells != nil {
		cfg.DPMaxCells = *yamlCfg.Solver.DPMaxCells
	}
	if yamlCfg.Solver.BnBStrategy != "" {
		s, err := knapsack.ParseStrategy(yamlCfg.Solver.BnBStrategy)
		if err != nil {
			return err
		}
		cfg.BnBStrategy = s
	}
	if yamlCfg.Solver.BnBMaxQueue != nil {
		cfg.BnBMaxQueue = *yamlCfg.Solver.BnBMaxQueue
	}

	if yamlCfg.RedisURL != "" {
		cfg.RedisURL = yamlCfg.RedisURL
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		raw    string
		target *time.Duration
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", d.raw, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if raw := env("CAPACITY"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("CAPACITY: %w", err)
		}
		cfg.Capacity = value
	}

	if raw := env("DP_RESOLUTION"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("DP_RESOLUTION: %w", err)
		}
		cfg.DPResolution = value
	}

	if raw := env("DP_MAX_CELLS"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("DP_MAX_CELLS: %w", err)
		}
		cfg.DPMaxCells = value
	}

	if raw := env("BNB_STRATEGY"); raw != "" {
		s, err := knapsack.ParseStrategy(raw)
		if err != nil {
			return fmt.Errorf("BNB_STRATEGY: %w", err)
		}
		cfg.BnBStrategy = s
	}

	if raw := env("BNB_MAX_QUEUE"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("BNB_MAX_QUEUE: %w", err)
		}
		cfg.BnBMaxQueue = value
	}

	if url := env("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}
	if overrides.Capacity != nil && *overrides.Capacity >= 0 {
		cfg.Capacity = *overrides.Capacity
	}
	if overrides.DPResolution != nil && *overrides.DPResolution > 0 {
		cfg.DPResolution = *overrides.DPResolution
	}
	if overrides.BnBStrategy != nil && *overrides.BnBStrategy != "" {
		s, err := knapsack.ParseStrategy(*overrides.BnBStrategy)
		if err != nil {
			return fmt.Errorf("parse strategy: %w", err)
		}
		cfg.BnBStrategy = s
	}
	if overrides.RedisURL != nil && *overrides.RedisURL != "" {
		cfg.RedisURL = *overrides.RedisURL
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}
	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.DPResolution <= 0 {
		return fmt.Errorf("DP_RESOLUTION must be > 0")
	}
	if cfg.BnBMaxQueue < 0 {
		return fmt.Errorf("BNB_MAX_QUEUE must be >= 0")
	}
	if err := cfg.InitialCatalog().Validate(); err != nil {
		return fmt.Errorf("initial catalog: %w", err)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
