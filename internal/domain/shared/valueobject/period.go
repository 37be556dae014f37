package valueobject

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is a value object representing a billing month in "YYYY-MM" form.
// It is immutable and ordered.
type Period struct {
	year  int
	month time.Month
}

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// NewPeriod creates a Period from a year and month
func NewPeriod(year int, month time.Month) (Period, error) {
	if year < 1900 || year > 9999 {
		return Period{}, fmt.Errorf("invalid period year: %d", year)
	}
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("invalid period month: %d", month)
	}
	return Period{year: year, month: month}, nil
}

// ParsePeriod parses a "YYYY-MM" string into a Period
func ParsePeriod(s string) (Period, error) {
	matches := periodPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Period{}, fmt.Errorf("invalid period format %q, expected YYYY-MM", s)
	}
	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	return NewPeriod(year, time.Month(month))
}

// PeriodOf returns the Period containing the given time
func PeriodOf(t time.Time) Period {
	return Period{year: t.Year(), month: t.Month()}
}

// Year returns the period's year
func (p Period) Year() int {
	return p.year
}

// Month returns the period's month
func (p Period) Month() time.Month {
	return p.month
}

// IsZero returns true for the zero-value Period
func (p Period) IsZero() bool {
	return p.year == 0
}

// String returns the "YYYY-MM" representation
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}

// Next returns the following month's Period
func (p Period) Next() Period {
	if p.month == time.December {
		return Period{year: p.year + 1, month: time.January}
	}
	return Period{year: p.year, month: p.month + 1}
}

// Before returns true if p is strictly earlier than other
func (p Period) Before(other Period) bool {
	if p.year != other.year {
		return p.year < other.year
	}
	return p.month < other.month
}

// Equals returns true if both periods denote the same month
func (p Period) Equals(other Period) bool {
	return p.year == other.year && p.month == other.month
}

// PeriodsBetween enumerates all periods from start through end inclusive.
// Returns nil if start is after end.
func PeriodsBetween(start, end Period) []Period {
	if end.Before(start) {
		return nil
	}
	var periods []Period
	for p := start; !end.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}

// Value implements driver.Valuer for database storage
func (p Period) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Period) Scan(value any) error {
	if value == nil {
		*p = Period{}
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Period", value)
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Period) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid period JSON: %w", err)
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
