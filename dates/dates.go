/*
Package dates provides timezone-less calendar date arithmetic.

PURPOSE:
  Everything in the planner operates on calendar dates (year-month-day),
  never on instants. A vacation day is a vacation day whether the browser
  is in Tokyo or Toronto. This package is the single place that knows how
  to parse, format, compare, and count such dates.

KEY CONCEPTS:
  - Date:         A (year, month, day) triple; no time of day, no zone
  - DaysBetween:  Signed day difference (end minus start)
  - WeekdayCount: Inclusive Monday-Friday count, the basis of PTO cost

DESIGN:
  Date wraps a time.Time pinned to UTC midnight. That keeps the arithmetic
  (AddDate, Sub) in the standard library while the API only ever exposes
  calendar-date semantics. Equality and ordering are purely numeric on the
  (year, month, day) triple.

SEE ALSO:
  - holiday: year-aware holiday lookup built on Date
  - pto: weekday counting drives hour totals
*/
package dates

import (
	"errors"
	"fmt"
	"time"
)

// ISOFormat is the canonical text form of a Date.
const ISOFormat = "2006-01-02"

// ErrInvalidDateFormat is returned when text input is not a valid
// YYYY-MM-DD calendar date.
var ErrInvalidDateFormat = errors.New("invalid date format")

// =============================================================================
// DATE - Timezone-less calendar date
// =============================================================================

type Date struct {
	t time.Time
}

// New constructs a Date from its components. Out-of-range components are
// normalized the way time.Date normalizes them (Feb 30 becomes Mar 2).
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an instant to its calendar date, discarding the
// time of day and the location.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar date in local time.
func Today() Date {
	return FromTime(time.Now())
}

// Parse converts canonical YYYY-MM-DD text into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(ISOFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return FromTime(t), nil
}

// MustParse is a test/fixture helper; it panics on malformed input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string { return d.t.Format(ISOFormat) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) IsWorkday() bool { return !d.IsWeekend() }

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return FromTime(d.t.AddDate(0, 0, n)) }

// StartOfYear returns January 1 of the date's year.
func (d Date) StartOfYear() Date { return New(d.Year(), time.January, 1) }

// =============================================================================
// SPAN ARITHMETIC
// =============================================================================

// DaysBetween returns the signed number of days from 'from' to 'to'
// (to minus from). Negative when 'to' precedes 'from'.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// WeekdayCount returns the number of Monday-Friday days in the inclusive
// span [start, end]. Zero when end precedes start.
func WeekdayCount(start, end Date) int {
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWorkday() {
			count++
		}
	}
	return count
}

// MarshalJSON / UnmarshalJSON keep the canonical ISO form on the wire.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDateFormat, data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
