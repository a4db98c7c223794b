package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// periodLayouts are tried in order by ParsePeriod.
var periodLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01",
	"2006/01/02",
	"01/2006",
	"01/02/2006",
	"Jan 2006",
	"January 2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a month label such as "2021-07" or a full date.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return PeriodOf(t), nil
		}
	}
	return Period{}, fmt.Errorf("timeseries: cannot parse %q as a month", s)
}

// Add returns the period n months later (earlier for negative n).
func (p Period) Add(n int) Period {
	idx := p.index() + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Period{Year: year, Month: time.Month(month + 1)}
}

// Sub returns the number of months from q to p.
func (p Period) Sub(q Period) int {
	return p.index() - q.index()
}

// Time returns the first instant of the month in UTC.
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Period) index() int {
	return p.Year*12 + int(p.Month) - 1
}
