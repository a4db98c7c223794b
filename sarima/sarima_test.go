package sarima

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/mashuzza/DTSA-5301/arima"
	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

func simulateAR1(n int, phi, mu float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	prev := 0.0
	for i := -100; i < n; i++ {
		prev = phi*prev + rng.NormFloat64()
		if i >= 0 {
			values[i] = mu + prev
		}
	}
	return values
}

// simulateAirline draws from (0,1,1)(0,1,1)[12].
func simulateAirline(n int, theta, stheta float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	e := make([]float64, n+13)
	for i := range e {
		e[i] = rng.NormFloat64()
	}
	w := make([]float64, n-13)
	for t := range w {
		i := t + 13
		w[t] = e[i] + theta*e[i-1] + stheta*e[i-12] + theta*stheta*e[i-13]
	}
	history := make([]float64, 13)
	for i := range history {
		history[i] = 100 + 10*math.Sin(2*math.Pi*float64(i)/12)
	}
	rest, err := stats.Integrate(w, history, 1, 1, 12)
	if err != nil {
		panic(err)
	}
	return append(history, rest...)
}

func TestFitAR1(t *testing.T) {
	series := timeseries.New(simulateAR1(300, 0.6, 50, 41))

	model, err := Fit(series, Order{P: 1}, &FitOptions{IncludeConstant: true})
	require.NoError(t, err)

	require.Len(t, model.ARCoeffs, 1)
	assert.InDelta(t, 0.6, model.ARCoeffs[0], 0.1)
	assert.InDelta(t, 50, model.Constant, 0.5)
	assert.InDelta(t, 1, model.Variance, 0.25)
	require.Len(t, model.ARStdErrors, 1)
	assert.InDelta(t, math.Sqrt((1-0.36)/300), model.ARStdErrors[0], 0.02)
	assert.Greater(t, model.ConstantStdError, 0.0)
	assert.Equal(t, 3, model.NumParams())
	assert.Equal(t, 300, model.NObs)
	assert.Less(t, model.AIC, model.AICc)
}

func TestFitAirline(t *testing.T) {
	series := timeseries.New(simulateAirline(144, -0.4, -0.6, 42))

	model, err := Fit(series, Order{D: 1, Q: 1, SD: 1, SQ: 1, M: 12}, &FitOptions{})
	require.NoError(t, err)

	assert.InDelta(t, -0.4, model.MACoeffs[0], 0.2)
	assert.InDelta(t, -0.6, model.SMACoeffs[0], 0.3)
	assert.Equal(t, 144-13, model.NObs)
	assert.False(t, model.HasConstant)
}

func TestFitRoots(t *testing.T) {
	orders := []Order{
		{P: 2, Q: 1},
		{P: 1, D: 1, Q: 1},
		{P: 1, SP: 1, M: 12},
		{Q: 2, SQ: 1, SD: 1, M: 12},
	}
	values := simulateAirline(96, 0.3, -0.5, 43)

	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			model, err := Fit(timeseries.New(values), order, &FitOptions{})
			var singular *SingularCovarianceError
			if errors.As(err, &singular) {
				t.Skip("coefficients not identified on this sample")
			}
			require.NoError(t, err)

			check := func(poly arima.Poly, strict bool) {
				mod, err := poly.MinRootModulus()
				require.NoError(t, err)
				if strict {
					assert.Greater(t, mod, 1.0)
				} else {
					assert.GreaterOrEqual(t, mod, 1.0)
				}
			}
			check(arima.ARPoly(model.ARCoeffs, 1), true)
			check(arima.ARPoly(model.SARCoeffs, 12), true)
			check(arima.MAPoly(model.MACoeffs, 1), false)
			check(arima.MAPoly(model.SMACoeffs, 12), false)
		})
	}
}

func TestFitDeterministic(t *testing.T) {
	series := timeseries.New(simulateAR1(120, 0.5, 10, 44))
	order := Order{P: 1, Q: 1}

	a, err := Fit(series, order, nil)
	require.NoError(t, err)
	b, err := Fit(series, order, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Coefficients(), b.Coefficients())
	assert.Equal(t, a.AICc, b.AICc)
}

func TestFitDoesNotMutateInput(t *testing.T) {
	values := simulateAR1(60, 0.5, 10, 45)
	original := append([]float64(nil), values...)

	_, err := Fit(timeseries.New(values), Order{P: 1, D: 1}, &FitOptions{})
	require.NoError(t, err)
	assert.Equal(t, original, values)
}

func TestFitNilOptionsTwoDifferences(t *testing.T) {
	airline := timeseries.New(simulateAirline(96, -0.4, -0.5, 52))
	model, err := Fit(airline, Order{D: 1, Q: 1, SD: 1, SQ: 1, M: 12}, nil)
	require.NoError(t, err)
	assert.False(t, model.HasConstant)
	assert.Zero(t, model.Constant)
	assert.Len(t, model.MACoeffs, 1)
	assert.Len(t, model.SMACoeffs, 1)

	model, err = Fit(airline, Order{D: 2}, nil)
	require.NoError(t, err)
	assert.False(t, model.HasConstant)

	model, err = Fit(airline, Order{D: 1}, nil)
	require.NoError(t, err)
	assert.True(t, model.HasConstant)
}

func TestFitInvalid(t *testing.T) {
	series := timeseries.New(simulateAR1(60, 0.5, 10, 46))
	var invalid *InvalidOrderError

	_, err := Fit(series, Order{D: 2, SD: 1, M: 12}, &FitOptions{})
	assert.True(t, errors.As(err, &invalid))

	_, err = Fit(series, Order{P: -1}, nil)
	assert.True(t, errors.As(err, &invalid))

	_, err = Fit(series, Order{SP: 1}, nil)
	assert.True(t, errors.As(err, &invalid))

	_, err = Fit(series, Order{D: 2}, &FitOptions{IncludeConstant: true})
	assert.True(t, errors.As(err, &invalid))

	var short *stats.InsufficientDataError
	_, err = Fit(timeseries.New(series.Values[:5]), Order{SD: 1, M: 12}, nil)
	assert.True(t, errors.As(err, &short))

	_, err = Fit(timeseries.New([]float64{1, math.NaN(), 3}), Order{}, nil)
	assert.ErrorIs(t, err, timeseries.ErrInvalidValue)
}

func TestForecastAR1(t *testing.T) {
	values := simulateAR1(200, 0.7, 20, 47)
	model, err := Fit(timeseries.New(values), Order{P: 1}, &FitOptions{IncludeConstant: true})
	require.NoError(t, err)

	fc, err := model.Forecast(6)
	require.NoError(t, err)
	require.Equal(t, 6, fc.Horizon)

	phi, mu := model.ARCoeffs[0], model.Constant
	last := values[len(values)-1]
	assert.InDelta(t, mu+phi*(last-mu), fc.Point[0], 1e-6)
	assert.InDelta(t, mu+phi*phi*(last-mu), fc.Point[1], 1e-6)
	assert.InDelta(t, math.Sqrt(model.Variance), fc.StdErr[0], 1e-9)
	assert.InDelta(t, math.Sqrt(model.Variance*(1+phi*phi)), fc.StdErr[1], 1e-9)
}

func TestForecastRandomWalkWithDrift(t *testing.T) {
	rng := rand.New(rand.NewSource(48))
	values := make([]float64, 100)
	for i := 1; i < len(values); i++ {
		values[i] = values[i-1] + 2 + rng.NormFloat64()
	}

	model, err := Fit(timeseries.New(values), Order{D: 1}, &FitOptions{IncludeConstant: true})
	require.NoError(t, err)
	assert.InDelta(t, (values[99]-values[0])/99, model.Constant, 1e-9)
	assert.Equal(t, model.Constant, model.Summary().Drift)
	assert.Zero(t, model.Summary().Intercept)

	fc, err := model.Forecast(4)
	require.NoError(t, err)
	for h := 1; h <= 4; h++ {
		assert.InDelta(t, values[99]+float64(h)*model.Constant, fc.Point[h-1], 1e-9)
		assert.InDelta(t, math.Sqrt(model.Variance*float64(h)), fc.StdErr[h-1], 1e-9)
	}
}

func TestForecastIntervals(t *testing.T) {
	series := timeseries.New(simulateAirline(96, -0.4, -0.5, 49))
	model, err := Fit(series, Order{D: 1, Q: 1, SD: 1, SQ: 1, M: 12}, nil)
	require.NoError(t, err)

	fc, err := model.Forecast(24)
	require.NoError(t, err)

	iv80, ok := fc.Interval(0.80)
	require.True(t, ok)
	iv95, ok := fc.Interval(0.95)
	require.True(t, ok)

	prevWidth := 0.0
	for h := 0; h < 24; h++ {
		assert.GreaterOrEqual(t, iv95.Upper[h], fc.Point[h])
		assert.LessOrEqual(t, iv95.Lower[h], fc.Point[h])
		assert.Less(t, iv95.Lower[h], iv80.Lower[h])
		assert.Greater(t, iv95.Upper[h], iv80.Upper[h])

		width := iv95.Upper[h] - iv95.Lower[h]
		assert.GreaterOrEqual(t, width, prevWidth)
		prevWidth = width
	}

	_, ok = fc.Interval(0.5)
	assert.False(t, ok)
}

func TestForecastErrors(t *testing.T) {
	model, err := Fit(timeseries.New(simulateAR1(50, 0.5, 0, 50)), Order{P: 1}, nil)
	require.NoError(t, err)

	var horizon *InvalidHorizonError
	_, err = model.Forecast(0)
	require.True(t, errors.As(err, &horizon))
	assert.Equal(t, 0, horizon.Horizon)

	_, err = model.ForecastLevels(3, 0.9, 1.5)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	fc, err := model.ForecastLevels(3, 0.5)
	require.NoError(t, err)
	assert.Len(t, fc.Intervals, 1)
}

func TestFitConstantSeries(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 42
	}

	model, err := Fit(timeseries.New(values), Order{}, &FitOptions{IncludeConstant: true})
	require.NoError(t, err)

	summary := model.Summary()
	assert.Zero(t, summary.Drift)
	assert.InDelta(t, 42, summary.Intercept, 1e-9)

	fc, err := model.Forecast(12)
	require.NoError(t, err)
	iv, _ := fc.Interval(0.95)
	for h := range fc.Point {
		assert.InDelta(t, 42, fc.Point[h], 1e-6)
		assert.Less(t, iv.Upper[h]-iv.Lower[h], 1e-3)
	}
}

func TestSummaryZeroDriftRow(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 42
	}

	model, err := Fit(timeseries.New(values), Order{D: 1}, &FitOptions{IncludeConstant: true})
	require.NoError(t, err)

	summary := model.Summary()
	assert.True(t, summary.HasConstant)
	assert.Zero(t, summary.Drift)
	assert.Contains(t, summary.String(), "drift")

	model, err = Fit(timeseries.New(values), Order{D: 1}, &FitOptions{})
	require.NoError(t, err)
	summary = model.Summary()
	assert.False(t, summary.HasConstant)
	assert.NotContains(t, summary.String(), "drift")
	assert.NotContains(t, summary.String(), "intercept")
}

func TestResidualsAndFittedValues(t *testing.T) {
	values := simulateAR1(80, 0.5, 5, 51)
	model, err := Fit(timeseries.New(values), Order{P: 1, D: 1}, &FitOptions{})
	require.NoError(t, err)

	residuals := model.Residuals()
	assert.Len(t, residuals, 79)
	assert.InDelta(t, 1, stat.StdDev(residuals, nil), 0.2)

	fitted := model.FittedValues()
	require.Len(t, fitted, 80)
	assert.True(t, math.IsNaN(fitted[0]))
	assert.False(t, math.IsNaN(fitted[1]))
	var sse float64
	for i := 1; i < len(values); i++ {
		e := values[i] - fitted[i]
		sse += e * e
	}
	assert.InDelta(t, model.Variance, sse/79, 0.5*model.Variance)

	summary := model.Summary()
	assert.Contains(t, summary.String(), "ARIMA(1,1,0)")
	assert.NotNil(t, summary.LjungBox)
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "ARIMA(1,1,1)", Order{P: 1, D: 1, Q: 1}.String())
	assert.Equal(t, "ARIMA(0,1,1)(0,1,1)[12]", Order{D: 1, Q: 1, SD: 1, SQ: 1, M: 12}.String())
}
