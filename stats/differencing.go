package stats

import (
	"fmt"

	"github.com/mashuzza/DTSA-5301/timeseries"
)

// InsufficientDataError is returned when a series is too short for the
// requested operation.
type InsufficientDataError struct {
	Op       string
	Length   int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("stats: %s needs at least %d observations, got %d", e.Op, e.Required, e.Length)
}

// Difference applies d regular (lag-1) differences followed by sd seasonal
// (lag-period) differences. The result has n - d - sd*period values.
//
// Seasonal differencing needs at least two full periods of input and must
// leave at least one full period; without seasonal differencing at least
// three values must remain.
func Difference(series *timeseries.Series, d, sd, period int) (*timeseries.Series, error) {
	if d < 0 || sd < 0 {
		return nil, fmt.Errorf("stats: negative differencing order d=%d D=%d", d, sd)
	}
	if sd > 0 && period < 2 {
		return nil, fmt.Errorf("stats: seasonal differencing needs period > 1, got %d", period)
	}

	n := series.Len()
	if sd > 0 && n < 2*period {
		return nil, &InsufficientDataError{Op: "seasonal differencing", Length: n, Required: 2 * period}
	}

	remaining := n - d - sd*period
	required := 3
	if sd > 0 {
		required = period
	}
	if remaining < required {
		return nil, &InsufficientDataError{Op: "differencing", Length: n, Required: n - remaining + required}
	}

	current := series
	for i := 0; i < d; i++ {
		current = current.Diff()
	}
	for i := 0; i < sd; i++ {
		current = current.SeasonalDiff(period)
	}
	return current, nil
}

// Integrate inverts Difference. Given the original history and values on the
// differenced scale that continue it, Integrate returns the values on the
// original scale, so that differencing history followed by the result
// reproduces the differenced history followed by diffed.
func Integrate(diffed, history []float64, d, sd, period int) ([]float64, error) {
	lags := differencingLags(d, sd, period)

	// stages[k] is the history after the first k differencing steps.
	stages := make([][]float64, len(lags)+1)
	stages[0] = history
	for k, lag := range lags {
		prev := stages[k]
		if len(prev) < lag {
			return nil, &InsufficientDataError{Op: "integration", Length: len(history), Required: len(history) - len(prev) + lag}
		}
		next := make([]float64, len(prev)-lag)
		for i := range next {
			next[i] = prev[i+lag] - prev[i]
		}
		stages[k+1] = next
	}

	current := diffed
	for k := len(lags) - 1; k >= 0; k-- {
		lag := lags[k]
		base := stages[k]
		if len(base) < lag {
			return nil, &InsufficientDataError{Op: "integration", Length: len(history), Required: lag}
		}
		ext := make([]float64, len(base), len(base)+len(current))
		copy(ext, base)
		for _, v := range current {
			ext = append(ext, v+ext[len(ext)-lag])
		}
		current = ext[len(base):]
	}

	out := make([]float64, len(current))
	copy(out, current)
	return out, nil
}

func differencingLags(d, sd, period int) []int {
	lags := make([]int, 0, d+sd)
	for i := 0; i < d; i++ {
		lags = append(lags, 1)
	}
	for i := 0; i < sd; i++ {
		lags = append(lags, period)
	}
	return lags
}

// NDiffs determines the number of first differences required for stationarity.
// testType is "adf" (default) or "kpss". Differencing stops early once the
// series becomes too short to test.
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD < 0 {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		var stationary bool
		switch testType {
		case "kpss":
			result := KPSS(current, "c", 0)
			stationary = result == nil || result.IsStationary
		default:
			stationary = IsStationary(current)
		}
		if stationary {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

// seasonalStrengthThreshold is the F_S value at which one seasonal
// difference is suggested.
const seasonalStrengthThreshold = 0.64

// NSDiffs determines the number of seasonal differences required, using the
// seasonal strength of a classical decomposition.
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 || period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(current, period) < seasonalStrengthThreshold {
			return d
		}

		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d + 1
		}
	}

	return maxD
}

// SeasonalStrength returns F_S = max(0, 1 - Var(R)/Var(S+R)) from an additive
// classical decomposition. Series shorter than two periods have strength 0.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period, "additive")
	if decomp == nil {
		return 0
	}

	resid := decomp.Residual.Values
	seasonalPlusResid := make([]float64, len(resid))
	for i, r := range resid {
		seasonalPlusResid[i] = decomp.Seasonal.Values[i] + r
	}

	varSR := nanVariance(seasonalPlusResid)
	if varSR <= 1e-12 {
		return 0
	}

	strength := 1 - nanVariance(resid)/varSR
	if strength < 0 {
		return 0
	}
	return strength
}
