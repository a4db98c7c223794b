package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for months (default: auto-detect)
	ValueColumn string // Column name for counts (default: auto-detect)
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		HasHeader: true,
		Delimiter: ',',
	}
}

var (
	dateHeaders  = []string{"month", "period", "date", "ds"}
	valueHeaders = []string{"count", "value", "y", "n", "incidents"}
)

// LoadCSV loads a monthly series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return series, nil
}

// LoadCSVFromReader loads a monthly series from an io.Reader.
// Rows may arrive in any order; they are sorted by month and must then form a
// gap-free sequence without duplicates.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	dateIdx, valueIdx := 0, 1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		dateIdx = findColumn(header, opts.DateColumn, dateHeaders)
		valueIdx = findColumn(header, opts.ValueColumn, valueHeaders)
		if dateIdx < 0 {
			if opts.DateColumn == "" {
				return nil, errors.New("timeseries: no month column found in header")
			}
			return nil, fmt.Errorf("timeseries: date column %q not found", opts.DateColumn)
		}
		if valueIdx < 0 {
			if opts.ValueColumn != "" {
				return nil, fmt.Errorf("timeseries: value column %q not found", opts.ValueColumn)
			}
			// Default to last column if not specified
			valueIdx = len(header) - 1
		}
	}

	type row struct {
		period Period
		value  float64
	}
	var rows []row
	line := opts.SkipRows
	if opts.HasHeader {
		line++
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if dateIdx >= len(record) || valueIdx >= len(record) {
			return nil, fmt.Errorf("timeseries: line %d: expected at least %d fields", line, max(dateIdx, valueIdx)+1)
		}
		period, err := ParsePeriod(clean(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		val, err := strconv.ParseFloat(clean(record[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("timeseries: line %d: invalid value %q: %w", line, record[valueIdx], err)
		}
		rows = append(rows, row{period: period, value: val})
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].period.Sub(rows[j].period) < 0
	})

	values := make([]float64, len(rows))
	for i, rw := range rows {
		if i > 0 && rw.period == rows[i-1].period {
			return nil, fmt.Errorf("timeseries: duplicate month %s", rw.period)
		}
		values[i] = rw.value
	}

	series := NewMonthly(rows[0].period, values)
	for i := 1; i < len(rows); i++ {
		if rows[i].period != rows[i-1].period.Add(1) {
			return nil, fmt.Errorf("%w: %s followed by %s", ErrGap, rows[i-1].period, rows[i].period)
		}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func findColumn(header []string, want string, candidates []string) int {
	for i, h := range header {
		h = clean(h)
		if want != "" {
			if strings.EqualFold(h, want) {
				return i
			}
			continue
		}
		for _, c := range candidates {
			if strings.EqualFold(h, c) {
				return i
			}
		}
	}
	return -1
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}
