// Package sarima implements Seasonal ARIMA (SARIMA) models estimated by exact
// Gaussian maximum likelihood.
//
// A SARIMA(p,d,q)(P,D,Q)[m] model includes:
//   - Non-seasonal components: AR(p), I(d), MA(q)
//   - Seasonal components: SAR(P), SI(D), SMA(Q) at seasonal period m
//
// Regular differences are applied before seasonal ones. The AR and MA
// polynomials are kept stationary and invertible during estimation, and the
// likelihood is evaluated with a Kalman filter on the state-space form of the
// multiplied-out model.
//
// # Basic Usage
//
//	// Airline model: SARIMA(0,1,1)(0,1,1)[12]
//	order := sarima.Order{Q: 1, D: 1, SQ: 1, SD: 1, M: 12}
//	model, err := sarima.Fit(series, order, &sarima.FitOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(model.Summary())
//
//	fc, err := model.Forecast(12)
//	iv, _ := fc.Interval(0.95)
//	fmt.Println(fc.Point[0], iv.Lower[0], iv.Upper[0])
//
// # Errors
//
// Fit reports estimation problems with typed errors:
//
//	var diverged *sarima.EstimationDivergedError
//	var singular *sarima.SingularCovarianceError
//	switch {
//	case errors.As(err, &diverged):
//	    // optimiser did not converge
//	case errors.As(err, &singular):
//	    // coefficients not identified
//	}
//
// For automatic order selection, use the autoarima package.
package sarima
