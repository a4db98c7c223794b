package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mashuzza/DTSA-5301/pipeline"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <csv>",
		Short: "Select a model and forecast a monthly series",
		Long: `Load a monthly count series from CSV, select a seasonal ARIMA model and
forecast the following months.

The CSV needs a month column (month, period, date or ds) and a count column
(count, value, y, n or incidents); other names can be given with flags.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, map[string]string{
				"horizon":      "forecast.horizon",
				"period":       "forecast.period",
				"levels":       "forecast.levels",
				"holdout":      "forecast.holdout",
				"format":       "forecast.format",
				"date-column":  "input.date_column",
				"value-column": "input.value_column",
				"workers":      "search.workers",
				"criterion":    "search.criterion",
			})
		},
		RunE: runForecast,
	}

	cmd.Flags().Int("horizon", 12, "number of months to forecast")
	cmd.Flags().Int("period", 12, "seasonal period, below 2 disables seasonal terms")
	cmd.Flags().String("levels", "0.8,0.95", "comma separated prediction interval levels")
	cmd.Flags().Int("holdout", 0, "months held out for a backtest, 0 to skip")
	cmd.Flags().String("format", "json", "output format (json, csv, text)")
	cmd.Flags().String("date-column", "", "month column name (default: auto-detect)")
	cmd.Flags().String("value-column", "", "count column name (default: auto-detect)")
	cmd.Flags().Int("workers", 1, "candidate models fitted in parallel")
	cmd.Flags().String("criterion", "aicc", "selection criterion (aic, aicc, bic)")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")

	return cmd
}

func runForecast(cmd *cobra.Command, args []string) error {
	format := viper.GetString("forecast.format")
	switch format {
	case "json", "csv", "text":
	default:
		return fmt.Errorf("invalid format: %s", format)
	}

	series, err := timeseries.LoadCSV(args[0], csvOptions())
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}
	start, _ := series.Start()
	slog.Info("Loaded series", "file", args[0], "months", series.Len(), "start", start.String())

	p := pipeline.New(pipelineConfig(), slog.Default())
	ctx := cmd.Context()

	result, err := p.Run(ctx, series)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}
	report := pipeline.NewReport(result)

	if holdout := viper.GetInt("forecast.holdout"); holdout > 0 {
		acc, err := p.Backtest(ctx, series, holdout)
		if err != nil {
			return fmt.Errorf("backtest failed: %w", err)
		}
		report.Accuracy = acc
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := writeReport(out, format, report, result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeReport(w io.Writer, format string, report *pipeline.Report, result *pipeline.Result) error {
	switch format {
	case "csv":
		return report.WriteCSV(w)
	case "text":
		return report.WriteText(w, result.Summary)
	default:
		return report.WriteJSON(w)
	}
}
