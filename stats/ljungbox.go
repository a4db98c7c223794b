package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mashuzza/DTSA-5301/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests residuals for autocorrelation up to lag h.
// The null hypothesis is no autocorrelation; fitdf is the number of estimated
// ARMA coefficients. It returns nil for short or constant series.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	var q float64
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}
