// Package stats provides the statistical building blocks of the forecasting
// pipeline: differencing, stationarity tests, autocorrelation functions,
// seasonal decomposition and residual diagnostics.
//
// # Differencing
//
// Regular differences are always applied before seasonal ones:
//
//	w, err := stats.Difference(series, 1, 1, 12) // (1-B)(1-B^12) y
//	var short *stats.InsufficientDataError
//	if errors.As(err, &short) {
//	    // series too short for the requested orders
//	}
//
//	// Map values on the differenced scale back to the original scale
//	levels, err := stats.Integrate(forecast, series.Values, 1, 1, 12)
//
// # Choosing Differencing Orders
//
//	sd := stats.NSDiffs(series, 12, 1)        // seasonal strength >= 0.64
//	d := stats.NDiffs(seasonallyDiffed, 2, "adf")
//
// # Stationarity Tests
//
//	// Augmented Dickey-Fuller, H0: unit root
//	adf := stats.ADF(series, 0)
//	fmt.Printf("ADF: stat=%.4f, 5%% cv=%.4f\n", adf.Statistic, adf.CriticalVals["5%"])
//
//	// KPSS, H0: level stationary
//	kpss := stats.KPSS(series, "c", 0)
//
// Both return nil when the series is too short for the test.
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 24)
//	pacf := stats.PACF(series, 24)
//	lags := stats.SignificantLags(acf, stats.ConfidenceBound(series.Len()))
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 24, p+q+P+Q)
//	if lb.PValue > 0.05 {
//	    // residuals look like white noise
//	}
package stats
