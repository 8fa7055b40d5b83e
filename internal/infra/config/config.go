package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Curve    CurveConfig    `yaml:"curve"`
	Tariff   TariffConfig   `yaml:"tariff"`
	Storage  StorageConfig  `yaml:"storage"`
	Scenario ScenarioConfig `yaml:"scenario"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	ShutdownGrace  time.Duration   `yaml:"shutdownGrace"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for POST requests failing with 5xx.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CurveConfig controls load curve synthesis.
type CurveConfig struct {
	PeakHours                []int   `yaml:"peakHours"`
	MinMonthlyConsumptionKWh float64 `yaml:"minMonthlyConsumptionKwh"`
}

// TariffConfig holds the distributor rates applied to every analysis.
type TariffConfig struct {
	Modality          string  `yaml:"modality"`
	PeakEnergyRate    float64 `yaml:"peakEnergyRate"`
	OffPeakEnergyRate float64 `yaml:"offPeakEnergyRate"`
	DemandRate        float64 `yaml:"demandRate"`
	PeakDemandRate    float64 `yaml:"peakDemandRate"`
	OffPeakDemandRate float64 `yaml:"offPeakDemandRate"`
}

// StorageConfig holds BESS project defaults used when a request omits them.
type StorageConfig struct {
	CapexBRL            float64 `yaml:"capexBrl"`
	AnnualOMBRL         float64 `yaml:"annualOmBrl"`
	LifetimeYears       int     `yaml:"lifetimeYears"`
	DiscountRate        float64 `yaml:"discountRate"`
	RoundTripEfficiency float64 `yaml:"roundTripEfficiency"`
}

// ScenarioConfig controls scenario persistence and listing.
type ScenarioConfig struct {
	TopStates     int            `yaml:"topStates"`
	ListLimit     int            `yaml:"listLimit"`
	MaxNameLength int            `yaml:"maxNameLength"`
	Redis         RedisConfig    `yaml:"redis"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for the counter store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("CURVE_PEAK_HOURS"); v != "" {
		if hours, err := parseHours(v); err == nil {
			cfg.Curve.PeakHours = hours
		}
	}
	if v := os.Getenv("CURVE_MIN_MONTHLY_KWH"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Curve.MinMonthlyConsumptionKWh = parsed
		}
	}
	if v := os.Getenv("TARIFF_MODALITY"); v != "" {
		cfg.Tariff.Modality = v
	}
	setFloat(&cfg.Tariff.PeakEnergyRate, "TARIFF_PEAK_ENERGY_RATE")
	setFloat(&cfg.Tariff.OffPeakEnergyRate, "TARIFF_OFFPEAK_ENERGY_RATE")
	setFloat(&cfg.Tariff.DemandRate, "TARIFF_DEMAND_RATE")
	setFloat(&cfg.Tariff.PeakDemandRate, "TARIFF_PEAK_DEMAND_RATE")
	setFloat(&cfg.Tariff.OffPeakDemandRate, "TARIFF_OFFPEAK_DEMAND_RATE")
	setFloat(&cfg.Storage.CapexBRL, "STORAGE_CAPEX_BRL")
	setFloat(&cfg.Storage.AnnualOMBRL, "STORAGE_ANNUAL_OM_BRL")
	setFloat(&cfg.Storage.DiscountRate, "STORAGE_DISCOUNT_RATE")
	setFloat(&cfg.Storage.RoundTripEfficiency, "STORAGE_ROUND_TRIP_EFFICIENCY")
	if v := os.Getenv("STORAGE_LIFETIME_YEARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.LifetimeYears = parsed
		}
	}
	if v := os.Getenv("SCENARIO_REDIS_ENABLED"); v != "" {
		cfg.Scenario.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("SCENARIO_REDIS_ADDR"); v != "" {
		cfg.Scenario.Redis.Addr = v
	}
	if v := os.Getenv("SCENARIO_POSTGRES_DSN"); v != "" {
		cfg.Scenario.Postgres.DSN = v
	}
	if v := os.Getenv("SCENARIO_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Scenario.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("SCENARIO_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Scenario.Postgres.MinConns = int32(parsed)
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseHours(v string) ([]int, error) {
	parts := splitList(v)
	hours := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, nil
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:       ":8080",
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  5 * time.Second,
			ShutdownGrace: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Curve: CurveConfig{
			PeakHours:                []int{18, 19, 20},
			MinMonthlyConsumptionKWh: 100,
		},
		Tariff: TariffConfig{
			Modality:          "green",
			PeakEnergyRate:    2.25,
			OffPeakEnergyRate: 0.46,
			DemandRate:        32.5,
			PeakDemandRate:    68.0,
			OffPeakDemandRate: 32.5,
		},
		Storage: StorageConfig{
			CapexBRL:            300000,
			AnnualOMBRL:         3000,
			LifetimeYears:       10,
			DiscountRate:        0.12,
			RoundTripEfficiency: 0.9,
		},
		Scenario: ScenarioConfig{
			TopStates:     9,
			ListLimit:     50,
			MaxNameLength: 120,
			Redis: RedisConfig{
				Enabled: false,
				Prefix:  "bess",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if len(c.Curve.PeakHours) == 0 {
		return errors.New("curve.peakHours cannot be empty")
	}
	for _, h := range c.Curve.PeakHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("curve.peakHours entry %d outside 0-23", h)
		}
	}
	if c.Curve.MinMonthlyConsumptionKWh < 0 {
		return errors.New("curve.minMonthlyConsumptionKwh cannot be negative")
	}
	switch strings.ToLower(c.Tariff.Modality) {
	case "green", "verde", "blue", "azul":
	default:
		return fmt.Errorf("tariff.modality %q must be green or blue", c.Tariff.Modality)
	}
	if c.Tariff.PeakEnergyRate < 0 || c.Tariff.OffPeakEnergyRate < 0 || c.Tariff.DemandRate < 0 ||
		c.Tariff.PeakDemandRate < 0 || c.Tariff.OffPeakDemandRate < 0 {
		return errors.New("tariff rates must be non-negative")
	}
	if c.Storage.LifetimeYears <= 0 {
		return errors.New("storage.lifetimeYears must be positive")
	}
	if c.Storage.RoundTripEfficiency <= 0 || c.Storage.RoundTripEfficiency > 1 {
		return errors.New("storage.roundTripEfficiency must be within (0, 1]")
	}
	if c.Storage.DiscountRate <= -1 {
		return errors.New("storage.discountRate must be greater than -1")
	}
	if c.Scenario.TopStates < 0 {
		return errors.New("scenario.topStates cannot be negative")
	}
	if c.Scenario.Redis.Enabled && strings.TrimSpace(c.Scenario.Redis.Addr) == "" {
		return errors.New("scenario.redis.addr cannot be empty when redis is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
