// Package arima provides the ARMA machinery shared by the seasonal models:
// backshift polynomials, the stationarity preserving reparametrisation, the
// Harvey state-space form with its exact Kalman filter likelihood, and
// psi-weights for forecast variances.
//
// # Polynomials
//
// Seasonal models multiply out their factors before building the state space:
//
//	ar := arima.ARPoly([]float64{0.5}, 1).Mul(arima.ARPoly([]float64{0.3}, 12))
//	ma := arima.MAPoly([]float64{-0.4}, 1)
//	mod, _ := ar.MinRootModulus() // > 1 means stationary
//
// # Reparametrisation
//
// Transform maps any real vector to a stationary AR polynomial through
// partial autocorrelations r = tanh(u). MATransform does the same for
// invertible MA polynomials:
//
//	phi := arima.Transform(u)
//	u2 := arima.InverseTransform(phi)
//
// # Likelihood
//
//	ss, err := arima.NewStateSpace(ar.Coefficients(), ma[1:])
//	res, err := ss.Filter(z)
//	fmt.Println(res.LogLikelihood(), res.Sigma2())
//	next := ss.Forecast(res.State, 12)
package arima
