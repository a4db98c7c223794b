package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <csv>",
		Short: "Show stationarity and autocorrelation diagnostics",
		Long: `Run the ADF and KPSS tests, report the differencing orders the model
search would choose and list significant autocorrelations.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, map[string]string{
				"period":       "forecast.period",
				"date-column":  "input.date_column",
				"value-column": "input.value_column",
			})
		},
		RunE: runDiagnose,
	}

	cmd.Flags().Int("period", 12, "seasonal period")
	cmd.Flags().Int("lags", 24, "number of autocorrelation lags")
	cmd.Flags().String("date-column", "", "month column name (default: auto-detect)")
	cmd.Flags().String("value-column", "", "count column name (default: auto-detect)")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	series, err := timeseries.LoadCSV(args[0], csvOptions())
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}
	period := viper.GetInt("forecast.period")
	lags, _ := cmd.Flags().GetInt("lags")
	slog.Debug("Running diagnostics", "file", args[0], "months", series.Len(), "period", period)

	return writeDiagnostics(cmd.OutOrStdout(), series, period, lags)
}

func writeDiagnostics(out io.Writer, series *timeseries.Series, period, lags int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "observations\t%d\n", series.Len())
	fmt.Fprintf(w, "mean\t%.3f\n", series.Mean())
	fmt.Fprintf(w, "std\t%.3f\n", series.Std())

	if adf := stats.ADF(series, -1); adf != nil {
		fmt.Fprintf(w, "ADF statistic\t%.4f (lags %d, 5%% cv %.4f, p %.4f, stationary %t)\n",
			adf.Statistic, adf.Lags, adf.CriticalVals["5%"], adf.PValue, adf.IsStationary)
	} else {
		fmt.Fprintf(w, "ADF statistic\tn/a (series too short)\n")
	}
	if kpss := stats.KPSS(series, "c", -1); kpss != nil {
		fmt.Fprintf(w, "KPSS statistic\t%.4f (lags %d, p %.4f, stationary %t)\n",
			kpss.Statistic, kpss.Lags, kpss.PValue, kpss.IsStationary)
	}

	sd := 0
	if period > 1 {
		fmt.Fprintf(w, "seasonal strength\t%.4f\n", stats.SeasonalStrength(series, period))
		sd = stats.NSDiffs(series, period, 1)
		fmt.Fprintf(w, "seasonal differences\t%d\n", sd)
	}
	d := 0
	if diffed, err := stats.Difference(series, 0, sd, period); err == nil {
		d = stats.NDiffs(diffed, 2-sd, "adf")
	}
	fmt.Fprintf(w, "regular differences\t%d\n", d)

	acf := stats.ACF(series, lags)
	bound := stats.ConfidenceBound(series.Len())
	fmt.Fprintf(w, "ACF 95%% bound\t±%.4f\n", bound)
	for _, lag := range stats.SignificantLags(acf, bound) {
		fmt.Fprintf(w, "  lag %d\t%.4f\n", lag, acf[lag])
	}

	return w.Flush()
}
