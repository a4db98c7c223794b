package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mashuzza/DTSA-5301/timeseries"
)

// Decomposition holds the components of a classical seasonal decomposition.
// Trend and Residual are NaN where the centered moving average is undefined.
type Decomposition struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string // "additive" or "multiplicative"
}

// Decompose performs classical decomposition with a centered moving average
// trend. decompositionType is "additive" (Y = T + S + R) or
// "multiplicative" (Y = T * S * R). It returns nil for series shorter than two
// periods.
func Decompose(series *timeseries.Series, period int, decompositionType string) *Decomposition {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	multiplicative := decompositionType == "multiplicative"
	if !multiplicative {
		decompositionType = "additive"
	}

	trend := centeredMovingAverage(series.Values, period)

	detrended := make([]float64, n)
	for i, v := range series.Values {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case multiplicative:
			if trend[i] == 0 {
				detrended[i] = math.NaN()
			} else {
				detrended[i] = v / trend[i]
			}
		default:
			detrended[i] = v - trend[i]
		}
	}

	// Average the detrended values of each season, then center the pattern.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			pattern[i%period] += v
			counts[i%period]++
		}
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}
	center := stat.Mean(pattern, nil)
	if multiplicative {
		if center != 0 {
			floats.Scale(1/center, pattern)
		}
	} else {
		floats.AddConst(-center, pattern)
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, v := range series.Values {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative:
			if trend[i] == 0 || seasonal[i] == 0 {
				residual[i] = math.NaN()
			} else {
				residual[i] = v / (trend[i] * seasonal[i])
			}
		default:
			residual[i] = v - trend[i] - seasonal[i]
		}
	}

	return &Decomposition{
		Original: series,
		Trend:    &timeseries.Series{Values: trend, Timestamps: series.Timestamps, Name: "trend"},
		Seasonal: &timeseries.Series{Values: seasonal, Timestamps: series.Timestamps, Name: "seasonal"},
		Residual: &timeseries.Series{Values: residual, Timestamps: series.Timestamps, Name: "residual"},
		Period:   period,
		Type:     decompositionType,
	}
}

// centeredMovingAverage returns the 2xperiod MA for even periods and the simple
// centered MA for odd periods. The first and last period/2 values are NaN.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	half := period / 2
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = 0.5*values[i-half] + 0.5*values[i+half] + floats.Sum(values[i-half+1:i+half])
		} else {
			sum = floats.Sum(values[i-half : i+half+1])
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// nanVariance is the sample variance of the non-NaN values.
func nanVariance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}
