package autoarima

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mashuzza/DTSA-5301/sarima"
	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

func seasonalCounts(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = 200 + 0.3*float64(i) + 25*math.Sin(2*math.Pi*float64(i)/12) + 3*rng.NormFloat64()
	}
	return values
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 5, config.MaxP)
	assert.Equal(t, 2, config.MaxD)
	assert.Equal(t, 5, config.MaxQ)
	assert.Equal(t, 2, config.MaxSP)
	assert.Equal(t, 1, config.MaxSD)
	assert.Equal(t, 2, config.MaxSQ)
	assert.Equal(t, 94, config.MaxModels)
	assert.Equal(t, "aicc", config.Criterion)
	assert.Equal(t, "adf", config.StationTest)
	assert.True(t, config.Stepwise)
	assert.True(t, config.AllowDrift)
	assert.Equal(t, 1, config.Workers)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Criterion = "hqic"
	_, err := cfg.validate()
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Seasonal = true
	_, err = cfg.validate()
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Criterion = ""
	cfg.Workers = 0
	got, err := cfg.validate()
	require.NoError(t, err)
	assert.Equal(t, "aicc", got.Criterion)
	assert.Equal(t, 1, got.Workers)
	assert.NotNil(t, got.Logger)
	assert.Empty(t, cfg.Criterion)
}

func TestSearchAR1(t *testing.T) {
	rng := rand.New(rand.NewSource(61))
	values := make([]float64, 200)
	prev := 0.0
	for i := range values {
		prev = 0.6*prev + rng.NormFloat64()
		values[i] = 100 + prev
	}

	config := DefaultConfig()
	config.MaxP = 3
	config.MaxQ = 3

	result, err := Search(context.Background(), timeseries.New(values), config)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Order.D)
	assert.True(t, result.Constant)
	assert.GreaterOrEqual(t, result.Order.P+result.Order.Q, 1)
	assert.LessOrEqual(t, result.ModelsEvaluated, config.MaxModels)
	assert.Equal(t, result.Model.AICc, result.Score)

	for _, c := range result.Ranked() {
		assert.GreaterOrEqual(t, c.Score, result.Score)
	}
}

func TestSearchSeasonal(t *testing.T) {
	series := timeseries.New(seasonalCounts(72, 62))

	config := DefaultConfig()
	config.Seasonal = true
	config.SeasonalM = 12

	result, err := Search(context.Background(), series, config)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Order.SD)
	assert.Equal(t, 12, result.Order.M)
	assert.LessOrEqual(t, result.Order.D+result.Order.SD, 2)

	fc, err := result.Forecast(12)
	require.NoError(t, err)
	assert.Len(t, fc.Point, 12)
}

func TestSearchDeterministicAcrossWorkers(t *testing.T) {
	series := timeseries.New(seasonalCounts(60, 63))

	run := func(workers int) *Result {
		config := DefaultConfig()
		config.Seasonal = true
		config.SeasonalM = 12
		config.Workers = workers
		result, err := Search(context.Background(), series, config)
		require.NoError(t, err)
		return result
	}

	a, b, c := run(1), run(1), run(4)
	assert.Equal(t, a.Order, b.Order)
	assert.Equal(t, a.Order, c.Order)
	assert.Equal(t, a.Constant, c.Constant)
	assert.Equal(t, a.Score, c.Score)
	assert.Equal(t, a.ModelsEvaluated, c.ModelsEvaluated)
	assert.Equal(t, a.Model.Coefficients(), c.Model.Coefficients())
}

func TestSearchGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(64))
	values := make([]float64, 120)
	for i := 1; i < len(values); i++ {
		values[i] = values[i-1] + 0.5 + rng.NormFloat64()
	}

	config := DefaultConfig()
	config.Stepwise = false
	config.MaxP = 2
	config.MaxQ = 2
	config.MaxOrder = 3

	result, err := Search(context.Background(), timeseries.New(values), config)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Order.D)
	for _, c := range result.Ranked() {
		assert.LessOrEqual(t, c.Order.P+c.Order.Q, 3)
		assert.GreaterOrEqual(t, c.Score, result.Score)
	}
}

func TestSearchInsufficientData(t *testing.T) {
	config := DefaultConfig()
	config.Seasonal = true
	config.SeasonalM = 12

	_, err := Search(context.Background(), timeseries.New([]float64{1, 2, 3, 4, 5}), config)
	var short *stats.InsufficientDataError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 24, short.Required)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, timeseries.New(seasonalCounts(48, 65)), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchConstantSeries(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 17
	}

	config := DefaultConfig()
	config.Seasonal = true
	config.SeasonalM = 12

	result, err := Search(context.Background(), timeseries.New(values), config)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Order.SD)
	assert.True(t, result.Constant)

	summary := result.Model.Summary()
	assert.InDelta(t, 0, summary.Drift, 1e-9)
}

func TestDifferencingPlans(t *testing.T) {
	config := DefaultConfig()
	config.Seasonal = true
	cfg := *config

	plans := differencingPlans(0, 1, &cfg)
	assert.Equal(t, []plan{{0, 1}, {1, 1}, {0, 0}}, plans)

	plans = differencingPlans(1, 1, &cfg)
	assert.Equal(t, []plan{{1, 1}, {0, 1}, {1, 0}}, plans)

	cfg.Seasonal = false
	cfg.MaxSD = 0
	plans = differencingPlans(2, 0, &cfg)
	assert.Equal(t, []plan{{2, 0}, {1, 0}}, plans)
}

func TestBetterTotalOrder(t *testing.T) {
	a := &evaluation{spec: spec{p: 1}, score: 10}
	b := &evaluation{spec: spec{p: 1, q: 1}, score: 10}
	c := &evaluation{spec: spec{q: 1}, score: 10}

	assert.True(t, better(a, b))
	assert.False(t, better(b, a))
	// Same score and size: the key decides.
	assert.True(t, better(c, a))
	assert.True(t, better(&evaluation{score: 9}, a))
}

func TestNoConvergingModelError(t *testing.T) {
	last := errors.New("boom")
	err := &NoConvergingModelError{Attempts: 3, Last: last}
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestSearchNoConvergingModel(t *testing.T) {
	_, err := Search(context.Background(), timeseries.New([]float64{1, 2}), nil)
	require.Error(t, err)

	var none *NoConvergingModelError
	require.True(t, errors.As(err, &none))
	assert.Positive(t, none.Attempts)

	var short *stats.InsufficientDataError
	assert.True(t, errors.As(err, &short))
}

func TestSearchFallsBackToNeighbouringPlan(t *testing.T) {
	// Period 2 with a strong alternating pattern selects D=1, which leaves two
	// observations: every candidate there has an infinite AICc.
	series := timeseries.New([]float64{0, 10, 1, 12})

	config := DefaultConfig()
	config.Seasonal = true
	config.SeasonalM = 2

	d, sd, err := chooseDifferencing(series, config)
	require.NoError(t, err)
	require.Equal(t, 0, d)
	require.Equal(t, 1, sd)

	result, err := Search(context.Background(), series, config)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Order.SD)
	assert.Equal(t, 0, result.Order.D)
	assert.Positive(t, result.ModelsFailed)
	assert.Greater(t, result.ModelsEvaluated, result.ModelsFailed)

	var failedUnderHeuristic int
	for _, c := range result.Candidates {
		if c.Order.SD == 1 {
			assert.Error(t, c.Err)
			failedUnderHeuristic++
		}
	}
	assert.Positive(t, failedUnderHeuristic)
}

func TestRankedUsesTotalOrder(t *testing.T) {
	result := &Result{Candidates: []Candidate{
		{Order: sarima.Order{P: 1}, Score: 5},
		{Order: sarima.Order{}, Constant: true, Score: 3},
		{Order: sarima.Order{}, Score: 3},
		{Order: sarima.Order{Q: 1}, Score: 1, Err: errors.New("diverged")},
		{Order: sarima.Order{Q: 1}, Score: 5},
	}}

	ranked := result.Ranked()
	require.Len(t, ranked, 4)
	assert.False(t, ranked[0].Constant)
	assert.True(t, ranked[1].Constant)
	// Equal score and size: (0,0,1) sorts before (1,0,0) by key.
	assert.Equal(t, sarima.Order{Q: 1}, ranked[2].Order)
	assert.Equal(t, sarima.Order{P: 1}, ranked[3].Order)
}
