// Package forecasting provides automatic seasonal ARIMA forecasting for
// monthly count series such as incidents per month.
//
// A forecast runs in four steps: the series is differenced until it looks
// stationary, a (p,d,q)(P,D,Q)[m] order is chosen by AICc, the coefficients
// are estimated by exact Gaussian likelihood and the fitted model is
// projected forward with 80% and 95% prediction intervals.
//
// # Features
//
//   - Regular and seasonal differencing with exact inversion
//   - Stationarity tests (ADF with MacKinnon critical values, KPSS)
//   - Seasonal strength from classical decomposition (nsdiffs)
//   - Exact likelihood by Kalman filtering of the state space form
//   - Stepwise or grid order search with parallel candidate fits
//   - Forecast standard errors from psi weights
//
// # Quick Start
//
// Forecast the next year of a monthly series:
//
//	series, _ := timeseries.LoadCSV("counts.csv", nil)
//	result, _ := pipeline.New(pipeline.DefaultConfig(), nil).Run(ctx, series)
//	_ = pipeline.NewReport(result).WriteJSON(os.Stdout)
//
// Fit a fixed order:
//
//	order := sarima.Order{P: 0, D: 1, Q: 1, SP: 0, SD: 1, SQ: 1, M: 12}
//	model, _ := sarima.Fit(series, order, nil)
//	forecast, _ := model.Forecast(12)
//
// # Packages
//
//   - timeseries: Monthly series, periods and CSV loading
//   - stats: Differencing, stationarity tests, ACF/PACF and criteria
//   - arima: State space kernel, Kalman filter and polynomial tools
//   - sarima: Seasonal ARIMA estimation and forecasting
//   - autoarima: Automatic order selection
//   - pipeline: End to end forecasting, backtests and reports
//
// The crimecast command in cmd/crimecast exposes the pipeline on the command line.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Durbin, J., & Koopman, S. J. (2012). Time Series Analysis by State Space Methods
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package forecasting
