package cashflow

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultStartYear is used when Inputs.StartDate is the zero value.
const DefaultStartYear = 2026

// StartDate is the calendar month of simulation month 0. The zero value
// means January of DefaultStartYear. Labels and the yearly policy events
// follow the calendar it sets. Mortgage rate tiers count loan years from
// month 0 regardless.
type StartDate struct {
	Year  int
	Month time.Month
}

// ParseStartDate parses "YYYY-MM". An empty string yields the zero value.
func ParseStartDate(s string) (StartDate, error) {
	if s == "" {
		return StartDate{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return StartDate{}, fmt.Errorf("invalid start month %q (want YYYY-MM): %w", s, err)
	}
	return StartDate{Year: t.Year(), Month: t.Month()}, nil
}

func (d StartDate) normalized() StartDate {
	if d.Year == 0 {
		d.Year = DefaultStartYear
	}
	if d.Month < time.January || d.Month > time.December {
		d.Month = time.January
	}
	return d
}

func (d StartDate) String() string {
	n := d.normalized()
	return fmt.Sprintf("%04d-%02d", n.Year, int(n.Month))
}

// At returns the calendar year and month of simulation month m.
func (d StartDate) At(m int) (int, time.Month) {
	n := d.normalized()
	offset := int(n.Month-time.January) + m
	return n.Year + offset/12, time.January + time.Month(offset%12)
}

// Label renders month m as e.g. "March 2027".
func (d StartDate) Label(m int) string {
	year, month := d.At(m)
	return fmt.Sprintf("%s %d", month, year)
}

func (d StartDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *StartDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseStartDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
