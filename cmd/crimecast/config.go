package main

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mashuzza/DTSA-5301/autoarima"
	"github.com/mashuzza/DTSA-5301/pipeline"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults() {
	search := autoarima.DefaultConfig()
	viper.SetDefault("search.max_p", search.MaxP)
	viper.SetDefault("search.max_q", search.MaxQ)
	viper.SetDefault("search.max_d", search.MaxD)
	viper.SetDefault("search.max_seasonal_p", search.MaxSP)
	viper.SetDefault("search.max_seasonal_q", search.MaxSQ)
	viper.SetDefault("search.max_seasonal_d", search.MaxSD)
	viper.SetDefault("search.max_order", search.MaxOrder)
	viper.SetDefault("search.stepwise", search.Stepwise)
	viper.SetDefault("search.max_models", search.MaxModels)
	viper.SetDefault("search.criterion", search.Criterion)
	viper.SetDefault("search.stationarity_test", search.StationTest)
	viper.SetDefault("search.allow_drift", search.AllowDrift)
	viper.SetDefault("search.workers", search.Workers)

	viper.SetDefault("forecast.horizon", 12)
	viper.SetDefault("forecast.period", 12)
	viper.SetDefault("forecast.levels", []float64{0.80, 0.95})
	viper.SetDefault("forecast.holdout", 0)
	viper.SetDefault("forecast.format", "json")

	viper.SetDefault("input.date_column", "")
	viper.SetDefault("input.value_column", "")
	viper.SetDefault("input.delimiter", ",")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// bindFlags binds command flags to viper keys. Binding happens when the
// command runs so that commands sharing a flag name do not override each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func pipelineConfig() *pipeline.Config {
	search := autoarima.DefaultConfig()
	search.MaxP = viper.GetInt("search.max_p")
	search.MaxQ = viper.GetInt("search.max_q")
	search.MaxD = viper.GetInt("search.max_d")
	search.MaxSP = viper.GetInt("search.max_seasonal_p")
	search.MaxSQ = viper.GetInt("search.max_seasonal_q")
	search.MaxSD = viper.GetInt("search.max_seasonal_d")
	search.MaxOrder = viper.GetInt("search.max_order")
	search.Stepwise = viper.GetBool("search.stepwise")
	search.MaxModels = viper.GetInt("search.max_models")
	search.Criterion = viper.GetString("search.criterion")
	search.StationTest = viper.GetString("search.stationarity_test")
	search.AllowDrift = viper.GetBool("search.allow_drift")
	search.Workers = viper.GetInt("search.workers")

	cfg := pipeline.DefaultConfig()
	cfg.SeasonalPeriod = viper.GetInt("forecast.period")
	cfg.Horizon = viper.GetInt("forecast.horizon")
	if levels := floatSlice(viper.Get("forecast.levels")); len(levels) > 0 {
		cfg.Levels = levels
	}
	cfg.Search = search
	return cfg
}

func csvOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.DateColumn = viper.GetString("input.date_column")
	opts.ValueColumn = viper.GetString("input.value_column")
	if d := viper.GetString("input.delimiter"); d != "" {
		opts.Delimiter = []rune(d)[0]
	}
	return opts
}

// floatSlice accepts levels from config files ([]any), defaults ([]float64)
// and flags or env (comma separated, optionally bracketed).
func floatSlice(v any) []float64 {
	switch t := v.(type) {
	case []float64:
		return t
	case []any:
		out := make([]float64, 0, len(t))
		for _, x := range t {
			if f, ok := toFloat(x); ok {
				out = append(out, f)
			}
		}
		return out
	case string:
		var out []float64
		for _, part := range strings.Split(strings.Trim(t, "[]"), ",") {
			if f, ok := toFloat(strings.TrimSpace(part)); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}
