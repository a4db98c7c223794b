package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mashuzza/DTSA-5301/timeseries"
)

// ACF calculates the sample autocorrelation function for lags 0 to maxLag.
// It returns nil for a constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return autocorrelations(series.Values, maxLag)
}

func autocorrelations(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	var denom float64
	for _, v := range values {
		denom += (v - mean) * (v - mean)
	}
	if denom == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		var sum float64
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / denom
	}
	return acf
}

// PACF calculates the partial autocorrelation function with the
// Durbin-Levinson recursion. Index 0 holds 1 and index k the partial
// autocorrelation at lag k.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	acf := ACF(series, maxLag)
	if len(acf) < 2 {
		return nil
	}
	maxLag = len(acf) - 1

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := []float64{acf[1]}
	pacf[1] = acf[1]
	for k := 2; k <= maxLag; k++ {
		num, den := acf[k], 1.0
		for j := 1; j < k; j++ {
			num -= phi[j-1] * acf[k-j]
			den -= phi[j-1] * acf[j]
		}
		if den == 0 {
			break
		}
		r := num / den
		pacf[k] = r

		next := make([]float64, k)
		for j := 0; j < k-1; j++ {
			next[j] = phi[j] - r*phi[k-2-j]
		}
		next[k-1] = r
		phi = next
	}
	return pacf
}

// ConfidenceBound returns the approximate 95% significance bound 1.96/sqrt(n)
// for autocorrelations of a white noise series of length n.
func ConfidenceBound(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return 1.96 / math.Sqrt(float64(n))
}

// SignificantLags returns the lags (skipping lag 0) whose value exceeds the bound.
func SignificantLags(values []float64, bound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]) > bound {
			significant = append(significant, i)
		}
	}
	return significant
}
