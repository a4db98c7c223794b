package sarima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mashuzza/DTSA-5301/arima"
	"github.com/mashuzza/DTSA-5301/stats"
)

// DefaultLevels are the confidence levels of Forecast.
var DefaultLevels = []float64{0.80, 0.95}

// Interval is a prediction interval at one confidence level.
type Interval struct {
	Level float64   `json:"level"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// ForecastResult holds point forecasts and prediction intervals on the
// original scale of the series.
type ForecastResult struct {
	Horizon   int        `json:"horizon"`
	Point     []float64  `json:"point"`
	StdErr    []float64  `json:"std_err"`
	Intervals []Interval `json:"intervals"`
}

// Interval returns the interval at the given level.
func (f *ForecastResult) Interval(level float64) (*Interval, bool) {
	for i := range f.Intervals {
		if math.Abs(f.Intervals[i].Level-level) < 1e-9 {
			return &f.Intervals[i], true
		}
	}
	return nil, false
}

// Forecast produces h-step forecasts with 80% and 95% intervals.
func (m *Model) Forecast(h int) (*ForecastResult, error) {
	return m.ForecastLevels(h, DefaultLevels...)
}

// ForecastLevels produces h-step forecasts with intervals at the given
// confidence levels.
func (m *Model) ForecastLevels(h int, levels ...float64) (*ForecastResult, error) {
	if h < 1 {
		return nil, &InvalidHorizonError{Horizon: h}
	}
	for _, level := range levels {
		if !(level > 0 && level < 1) {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidLevel, level)
		}
	}

	z := m.ss.Forecast(m.state, h)
	for i := range z {
		z[i] += m.Constant
	}
	point, err := stats.Integrate(z, m.history, m.Order.D, m.Order.SD, m.Order.M)
	if err != nil {
		return nil, fmt.Errorf("sarima: integrate forecasts: %w", err)
	}

	psi := m.psiWeights(h)
	stdErr := make([]float64, h)
	var acc float64
	for j := 0; j < h; j++ {
		acc += psi[j] * psi[j]
		stdErr[j] = math.Sqrt(m.Variance * acc)
	}

	result := &ForecastResult{
		Horizon:   h,
		Point:     point,
		StdErr:    stdErr,
		Intervals: make([]Interval, len(levels)),
	}
	for i, level := range levels {
		q := distuv.UnitNormal.Quantile(0.5 + level/2)
		iv := Interval{
			Level: level,
			Lower: make([]float64, h),
			Upper: make([]float64, h),
		}
		for j := 0; j < h; j++ {
			iv.Lower[j] = point[j] - q*stdErr[j]
			iv.Upper[j] = point[j] + q*stdErr[j]
		}
		result.Intervals[i] = iv
	}
	return result, nil
}

// psiWeights returns the MA(infinity) weights of the integrated model
// phi(B) Phi(B^m) (1-B)^d (1-B^m)^D y = theta(B) Theta(B^m) e.
func (m *Model) psiWeights(h int) []float64 {
	ar := fullARPoly(m.Order, m.ARCoeffs, m.SARCoeffs).Mul(arima.DiffPoly(m.Order.D, m.Order.SD, m.Order.M))
	ma := fullMAPoly(m.Order, m.MACoeffs, m.SMACoeffs)
	return arima.PsiWeights(ar.Coefficients(), maCoefficients(ma), h)
}
