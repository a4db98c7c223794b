// Package autoarima implements automatic SARIMA order selection.
//
// Search chooses the differencing orders first: the seasonal difference D
// from the seasonal strength of a classical decomposition and the regular
// difference d from a unit root test on the seasonally differenced series.
// It then searches (p, q, P, Q) and the constant, either stepwise from a set of
// starting models or exhaustively, keeping the model with the lowest
// information criterion (AICc by default).
//
// # Basic Usage
//
//	config := autoarima.DefaultConfig()
//	config.Seasonal = true
//	config.SeasonalM = 12
//	config.Workers = 4
//
//	result, err := autoarima.Search(ctx, series, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Selected: %s, AICc=%.2f\n", result.Order, result.Score)
//
//	forecast, _ := result.Forecast(12)
//
// # Stepwise Search
//
// The stepwise search fits (2,2,1,1), (0,0,0,0), (1,0,1,0) and (0,1,0,1) with a
// constant and (0,0,0,0) without, then repeatedly moves to the best neighbour
// (one order up or down, or the constant toggled) while it strictly improves
// the criterion. Ties are broken by parameter count and then by order, so the
// result does not depend on the number of workers.
//
// # Failures
//
// Candidates that fail to estimate are skipped. When every candidate of every
// differencing plan fails, Search returns a *NoConvergingModelError wrapping
// the last failure.
package autoarima
