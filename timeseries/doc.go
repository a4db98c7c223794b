// Package timeseries provides the monthly series type consumed by the forecasting
// packages.
//
// A Series holds ordered values and, optionally, one timestamp per value marking the
// first instant of its month. Forecasting requires a gap-free series; Validate
// enforces that.
//
// # Creating a Series
//
//	start := timeseries.Period{Year: 2006, Month: time.January}
//	series := timeseries.NewMonthly(start, []float64{121, 98, 130, 142})
//	if err := series.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Loading from CSV
//
// Load monthly counts produced by an upstream aggregation step:
//
//	series, err := timeseries.LoadCSV("monthly_counts.csv", nil)
//
// The header is searched for a month column ("month", "period", "date", "ds") and a
// value column ("count", "value", "y", ...). Rows are sorted by month; duplicate or
// missing months are rejected.
//
// # Transformations
//
//	diff := series.Diff()            // First difference
//	sdiff := series.SeasonalDiff(12) // Seasonal difference
//	train := series.Slice(0, 60)     // Sub-series, timestamps preserved
//
// # Periods
//
// Period is a calendar month. NextPeriods labels forecast steps:
//
//	labels := series.NextPeriods(12) // the 12 months after the last observation
package timeseries
