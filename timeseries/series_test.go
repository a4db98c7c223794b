package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonthly(t *testing.T) {
	start := Period{Year: 2019, Month: time.November}
	series := NewMonthly(start, []float64{1, 2, 3, 4})

	require.Len(t, series.Timestamps, 4)
	assert.Equal(t, Period{Year: 2020, Month: time.February}, PeriodOf(series.Timestamps[3]))
	require.NoError(t, series.Validate())

	got, ok := series.Start()
	require.True(t, ok)
	assert.Equal(t, start, got)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, New(nil).Validate(), ErrEmpty)
	assert.ErrorIs(t, New([]float64{1, math.NaN()}).Validate(), ErrInvalidValue)
	assert.ErrorIs(t, New([]float64{1, math.Inf(1)}).Validate(), ErrInvalidValue)
	assert.NoError(t, New([]float64{1, 2}).Validate())

	start := Period{Year: 2020, Month: time.January}
	gapped, err := NewWithTimestamps(
		[]time.Time{start.Time(), start.Add(2).Time()},
		[]float64{1, 2},
	)
	require.NoError(t, err)
	assert.ErrorIs(t, gapped.Validate(), ErrGap)

	_, err = NewWithTimestamps([]time.Time{start.Time()}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestStatistics(t *testing.T) {
	series := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.InDelta(t, 5.0, series.Mean(), 1e-12)
	assert.InDelta(t, 32.0/7.0, series.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), series.Std(), 1e-12)
	assert.Equal(t, 2.0, series.Min())
	assert.Equal(t, 9.0, series.Max())

	empty := New(nil)
	assert.Equal(t, 0.0, empty.Mean())
	assert.True(t, math.IsNaN(empty.Min()))
}

func TestDiff(t *testing.T) {
	series := NewMonthly(Period{Year: 2020, Month: time.January}, []float64{1, 4, 9, 16, 25})

	diff := series.Diff()
	assert.Equal(t, []float64{3, 5, 7, 9}, diff.Values)
	require.Len(t, diff.Timestamps, 4)
	assert.Equal(t, series.Timestamps[1], diff.Timestamps[0])

	assert.Equal(t, []float64{2, 2, 2}, diff.Diff().Values)
	assert.Empty(t, New([]float64{1}).Diff().Values)
}

func TestSeasonalDiff(t *testing.T) {
	values := []float64{10, 20, 30, 40, 12, 22, 32, 42}
	sdiff := New(values).SeasonalDiff(4)

	assert.Equal(t, []float64{2, 2, 2, 2}, sdiff.Values)
	assert.Nil(t, sdiff.Timestamps)
	assert.Empty(t, New(values).SeasonalDiff(8).Values)
}

func TestSliceAndCopy(t *testing.T) {
	series := NewMonthly(Period{Year: 2020, Month: time.January}, []float64{1, 2, 3, 4, 5})

	sub := series.Slice(1, 3)
	assert.Equal(t, []float64{2, 3}, sub.Values)
	got, ok := sub.Start()
	require.True(t, ok)
	assert.Equal(t, Period{Year: 2020, Month: time.February}, got)

	assert.Empty(t, series.Slice(4, 2).Values)

	cp := series.Copy()
	cp.Values[0] = 100
	assert.Equal(t, 1.0, series.Values[0])
}

func TestNextPeriods(t *testing.T) {
	series := NewMonthly(Period{Year: 2021, Month: time.October}, []float64{1, 2, 3})

	next := series.NextPeriods(3)
	assert.Equal(t, []Period{
		{Year: 2022, Month: time.January},
		{Year: 2022, Month: time.February},
		{Year: 2022, Month: time.March},
	}, next)

	assert.Nil(t, New([]float64{1}).NextPeriods(2))
}
