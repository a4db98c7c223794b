package autoarima

import (
	"fmt"
	"log/slog"
)

// Config holds configuration for the automatic order search.
type Config struct {
	MaxP  int // Maximum AR order (default: 5)
	MaxD  int // Maximum differencing order (default: 2)
	MaxQ  int // Maximum MA order (default: 5)
	MaxSP int // Maximum seasonal AR order (default: 2)
	MaxSD int // Maximum seasonal differencing order (default: 1)
	MaxSQ int // Maximum seasonal MA order (default: 2)
	// MaxOrder bounds p+q+P+Q in the exhaustive search (default: 5).
	MaxOrder    int
	Seasonal    bool   // Whether to consider seasonal models
	SeasonalM   int    // Seasonal period (required if Seasonal=true)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	MaxModels   int    // Maximum number of fits per differencing plan (default: 94)
	Criterion   string // "aicc" (default), "aic" or "bic"
	StationTest string // Stationarity test: "adf" (default) or "kpss"
	AllowDrift  bool   // Allow a drift term when d+D = 1
	Workers     int    // Concurrent candidate fits (default: 1)

	Logger *slog.Logger
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		MaxSP:       2,
		MaxSD:       1,
		MaxSQ:       2,
		MaxOrder:    5,
		Seasonal:    false,
		Stepwise:    true,
		MaxModels:   94,
		Criterion:   "aicc",
		StationTest: "adf",
		AllowDrift:  true,
		Workers:     1,
	}
}

// validate checks the configuration and fills zero values with defaults.
// It works on a copy so the caller's Config is never modified.
func (c Config) validate() (*Config, error) {
	switch c.Criterion {
	case "":
		c.Criterion = "aicc"
	case "aicc", "aic", "bic":
	default:
		return nil, fmt.Errorf("autoarima: unknown criterion %q", c.Criterion)
	}
	switch c.StationTest {
	case "":
		c.StationTest = "adf"
	case "adf", "kpss":
	default:
		return nil, fmt.Errorf("autoarima: unknown stationarity test %q", c.StationTest)
	}
	if c.MaxP < 0 || c.MaxQ < 0 || c.MaxD < 0 || c.MaxSP < 0 || c.MaxSQ < 0 || c.MaxSD < 0 {
		return nil, fmt.Errorf("autoarima: maximum orders must be non-negative")
	}
	if c.Seasonal && c.SeasonalM < 2 {
		return nil, fmt.Errorf("autoarima: seasonal search needs SeasonalM >= 2, got %d", c.SeasonalM)
	}
	if !c.Seasonal {
		c.MaxSP, c.MaxSQ, c.MaxSD = 0, 0, 0
	}
	if c.MaxModels <= 0 {
		c.MaxModels = 94
	}
	if c.MaxOrder <= 0 {
		c.MaxOrder = 5
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return &c, nil
}
