package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mashuzza/DTSA-5301/autoarima"
	"github.com/mashuzza/DTSA-5301/sarima"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

// Config holds pipeline configuration.
type Config struct {
	// SeasonalPeriod is the seasonal period m; values below 2 disable
	// seasonal modelling.
	SeasonalPeriod int
	// Horizon is the number of months to forecast.
	Horizon int
	// Levels are the prediction interval confidence levels.
	Levels []float64
	// Search configures the order search. Its seasonal fields and logger are
	// set by the pipeline.
	Search *autoarima.Config
}

// DefaultConfig returns the configuration for monthly data: yearly
// seasonality, a 12 month horizon and 80% / 95% intervals.
func DefaultConfig() *Config {
	return &Config{
		SeasonalPeriod: 12,
		Horizon:        12,
		Levels:         append([]float64(nil), sarima.DefaultLevels...),
		Search:         autoarima.DefaultConfig(),
	}
}

// Pipeline runs the forecasting pipeline.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a pipeline. A nil config selects DefaultConfig and a nil
// logger discards log output.
func New(cfg *Config, logger *slog.Logger) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := *cfg
	c.Levels = append([]float64(nil), cfg.Levels...)
	if len(c.Levels) == 0 {
		c.Levels = append([]float64(nil), sarima.DefaultLevels...)
	}
	if c.Search == nil {
		c.Search = autoarima.DefaultConfig()
	} else {
		search := *cfg.Search
		c.Search = &search
	}
	return &Pipeline{cfg: c, logger: logger}
}

// Result is the output of one pipeline run.
type Result struct {
	Name     string
	Search   *autoarima.Result
	Model    *sarima.Model
	Summary  *sarima.Summary
	Forecast *sarima.ForecastResult
	// Periods label the forecast steps; nil when the series has no timestamps.
	Periods []timeseries.Period
}

// Run validates the series, selects and fits a model and forecasts
// Config.Horizon months ahead. The input series is not modified.
func (p *Pipeline) Run(ctx context.Context, series *timeseries.Series) (*Result, error) {
	return p.run(ctx, series, p.cfg.Horizon, p.cfg.Levels)
}

func (p *Pipeline) run(ctx context.Context, series *timeseries.Series, horizon int, levels []float64) (*Result, error) {
	if horizon < 1 {
		return nil, &sarima.InvalidHorizonError{Horizon: horizon}
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid series: %w", err)
	}
	series = series.Copy()

	searchCfg := *p.cfg.Search
	searchCfg.Seasonal = p.cfg.SeasonalPeriod > 1
	searchCfg.SeasonalM = 0
	if searchCfg.Seasonal {
		searchCfg.SeasonalM = p.cfg.SeasonalPeriod
	}
	if searchCfg.Logger == nil {
		searchCfg.Logger = p.logger
	}

	p.logger.Info("searching model", "observations", series.Len(), "seasonal_period", searchCfg.SeasonalM)
	found, err := autoarima.Search(ctx, series, &searchCfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: model search: %w", err)
	}

	forecast, err := found.Model.ForecastLevels(horizon, levels...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: forecast: %w", err)
	}
	p.logger.Info("forecast ready", "order", found.Order.String(), "horizon", horizon)

	return &Result{
		Name:     series.Name,
		Search:   found,
		Model:    found.Model,
		Summary:  found.Model.Summary(),
		Forecast: forecast,
		Periods:  series.NextPeriods(horizon),
	}, nil
}
