// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmpty is returned when a series holds no observations.
	ErrEmpty = errors.New("timeseries: series is empty")
	// ErrInvalidValue is returned for NaN or infinite observations.
	ErrInvalidValue = errors.New("timeseries: series contains NaN or infinite values")
	// ErrGap is returned when consecutive timestamps are not one month apart.
	ErrGap = errors.New("timeseries: series has a gap between consecutive months")
	// ErrLengthMismatch is returned when timestamps and values differ in length.
	ErrLengthMismatch = errors.New("timeseries: timestamps and values must have the same length")
)

// Series represents a time series with timestamps and values.
// Timestamps are optional; when present they mark the first instant of each month.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values without timestamps.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewMonthly creates a gap-free monthly series whose first value belongs to start.
func NewMonthly(start Period, values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.Add(i).Time()
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Validate checks that the series can be modeled: it is non-empty, every value
// is finite and, when timestamps are present, months follow each other without gaps.
func (s *Series) Validate() error {
	if len(s.Values) == 0 {
		return ErrEmpty
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: index %d", ErrInvalidValue, i)
		}
	}
	if len(s.Timestamps) == 0 {
		return nil
	}
	if len(s.Timestamps) != len(s.Values) {
		return ErrLengthMismatch
	}
	prev := PeriodOf(s.Timestamps[0])
	for i := 1; i < len(s.Timestamps); i++ {
		cur := PeriodOf(s.Timestamps[i])
		if cur != prev.Add(1) {
			return fmt.Errorf("%w: %s followed by %s", ErrGap, prev, cur)
		}
		prev = cur
	}
	return nil
}

// Start returns the period of the first observation.
// The boolean is false when the series carries no timestamps.
func (s *Series) Start() (Period, bool) {
	if len(s.Timestamps) == 0 || len(s.Timestamps) != len(s.Values) {
		return Period{}, false
	}
	return PeriodOf(s.Timestamps[0]), true
}

// NextPeriods returns the h months that follow the last observation.
// It returns nil when the series carries no timestamps.
func (s *Series) NextPeriods(h int) []Period {
	start, ok := s.Start()
	if !ok || h < 1 {
		return nil
	}
	last := start.Add(s.Len() - 1)
	periods := make([]Period, h)
	for i := range periods {
		periods[i] = last.Add(i + 1)
	}
	return periods
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m, "_seasonal_diff")
}

// lagDiff returns y[t] - y[t-lag]; timestamps follow the later observation.
func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Values: []float64{}, Name: s.Name + suffix}
	}

	result := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		result[i-lag] = s.Values[i] - s.Values[i-lag]
	}

	var timestamps []time.Time
	if len(s.Timestamps) == len(s.Values) {
		timestamps = make([]time.Time, len(result))
		copy(timestamps, s.Timestamps[lag:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + suffix,
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) == len(s.Values) {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	var timestamps []time.Time
	if s.Timestamps != nil {
		timestamps = make([]time.Time, len(s.Timestamps))
		copy(timestamps, s.Timestamps)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}
