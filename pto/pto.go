/*
Package pto implements the paid-time-off accrual and validation engine.

PURPOSE:
  Turns a per-calendar policy (years of service, rollover hours) and a list
  of time-off entries into balances, and decides whether a new request is
  allowed. Everything here is a pure function over its inputs: no store, no
  clock, no hidden state. The caller owns the entries and passes them in.

KEY CONCEPTS:
  - Config:  One calendar's PTO policy (tenure, rollover, enabled flag)
  - Entry:   One logged time-off span; cost = hours/day x weekdays in span
  - Summary: The projection shown to users (totals, used, remaining, rate)

POLICY MATH:
  AnnualAllowanceHours is a step function, not a linear accrual:
    < 5 years of service: 168 hours (21 eight-hour days)
    >= 5 years:           208 hours (26 eight-hour days)

  AccruedToDate prorates the annual allowance linearly over a fixed 365-day
  year (never 366) and floors the result. Rollover hours are available from
  day one.

KNOWN ASYMMETRY:
  A multi-day entry's cost excludes weekends but NOT weekday holidays
  inside the span; only the two endpoints are holiday-checked at request
  time.

SEE ALSO:
  - errors.go: validation error kinds
  - planner: mirrors approved entries into visible date ranges
*/
package pto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/holiday"
)

// =============================================================================
// POLICY CONFIG
// =============================================================================

// Config governs one calendar's PTO policy.
type Config struct {
	YearsOfService int
	RolloverHours  decimal.Decimal
	Enabled        bool
}

// Entry is one logged time-off span.
type Entry struct {
	ID          string
	Start       dates.Date
	End         dates.Date
	HoursPerDay int // 2, 4, or 8
	TotalHours  decimal.Decimal
	Name        string
}

// ValidHoursPerDay are the only accepted granularities: quarter, half,
// and full day.
var ValidHoursPerDay = []int{2, 4, 8}

const (
	hoursPerFullDay            = 8
	allowanceHoursJunior       = 168 // 21 days, < 5 years of service
	allowanceHoursSenior       = 208 // 26 days, >= 5 years
	seniorityThresholdYears    = 5
	accrualDaysPerYear         = 365 // fixed; leap years are not special-cased
)

// NewEntry builds an entry with its derived TotalHours. Endpoints are
// normalized so Start <= End.
func NewEntry(id string, start, end dates.Date, hoursPerDay int, name string) Entry {
	if end.Before(start) {
		start, end = end, start
	}
	return Entry{
		ID:          id,
		Start:       start,
		End:         end,
		HoursPerDay: hoursPerDay,
		TotalHours:  TotalHours(start, end, hoursPerDay),
		Name:        name,
	}
}

// TotalHours is the cost of a span: hours/day times the weekdays in it.
// Weekends inside the span are free; weekday holidays inside it are not
// (see the package comment).
func TotalHours(start, end dates.Date, hoursPerDay int) decimal.Decimal {
	return decimal.NewFromInt(int64(hoursPerDay * dates.WeekdayCount(start, end)))
}

// =============================================================================
// ALLOWANCE AND ACCRUAL
// =============================================================================

// AnnualAllowanceHours returns the yearly PTO allowance for a tenure.
// Step function: the jump happens at exactly five years.
func AnnualAllowanceHours(yearsOfService int) decimal.Decimal {
	if yearsOfService < seniorityThresholdYears {
		return decimal.NewFromInt(allowanceHoursJunior)
	}
	return decimal.NewFromInt(allowanceHoursSenior)
}

// TotalAllowanceHours is the annual allowance plus rollover.
func (c Config) TotalAllowanceHours() decimal.Decimal {
	return AnnualAllowanceHours(c.YearsOfService).Add(c.RolloverHours)
}

// AccruedToDate returns floor(rollover + daysElapsed * totalAnnual / 365),
// where daysElapsed counts full calendar days strictly before the target
// date within its year (0 on January 1).
func AccruedToDate(d dates.Date, rolloverHours, totalAnnualHours decimal.Decimal) decimal.Decimal {
	elapsed := dates.DaysBetween(d.StartOfYear(), d)
	earned := totalAnnualHours.
		Mul(decimal.NewFromInt(int64(elapsed))).
		Div(decimal.NewFromInt(accrualDaysPerYear))
	return rolloverHours.Add(earned).Floor()
}

// UsedHours sums the cost of all entries.
func UsedHours(entries []Entry) decimal.Decimal {
	used := decimal.Zero
	for _, e := range entries {
		used = used.Add(e.TotalHours)
	}
	return used
}

// RemainingHours is the allowance (annual + rollover) minus all usage.
func RemainingHours(entries []Entry, totalAnnualHours, rolloverHours decimal.Decimal) decimal.Decimal {
	return totalAnnualHours.Add(rolloverHours).Sub(UsedHours(entries))
}

// =============================================================================
// SUMMARY PROJECTION
// =============================================================================

// Summary is the user-facing balance projection for one calendar.
// Day figures are fractional (hours / 8).
type Summary struct {
	TotalHours     decimal.Decimal
	UsedHours      decimal.Decimal
	RemainingHours decimal.Decimal
	TotalDays      decimal.Decimal
	UsedDays       decimal.Decimal
	RemainingDays  decimal.Decimal
	AccrualRate    decimal.Decimal // hours earned per calendar day
}

// Summarize projects config + entries into a Summary.
func Summarize(cfg Config, entries []Entry) Summary {
	annual := AnnualAllowanceHours(cfg.YearsOfService)
	total := annual.Add(cfg.RolloverHours)
	used := UsedHours(entries)
	remaining := total.Sub(used)

	perDay := decimal.NewFromInt(hoursPerFullDay)
	return Summary{
		TotalHours:     total,
		UsedHours:      used,
		RemainingHours: remaining,
		TotalDays:      total.Div(perDay),
		UsedDays:       used.Div(perDay),
		RemainingDays:  remaining.Div(perDay),
		AccrualRate:    total.Div(decimal.NewFromInt(accrualDaysPerYear)),
	}
}

// =============================================================================
// VALIDATION - Ordered rule chain, first failure wins
// =============================================================================

// Validate decides whether a candidate entry may be added alongside the
// existing entries. Rules run in order and short-circuit:
//  1. PTO enabled for the calendar
//  2. Neither endpoint falls on a holiday
//  3. Hours per day is exactly 2, 4, or 8
//  4. The candidate's cost fits the remaining balance
//
// A nil holiday table skips rule 2.
func Validate(cfg Config, existing []Entry, candidate Entry, holidays *holiday.Table) error {
	if !cfg.Enabled {
		return ErrPTONotEnabled
	}

	if holidays != nil {
		for _, d := range []dates.Date{candidate.Start, candidate.End} {
			if name, ok := holidays.Name(d); ok {
				return &HolidayBlockedError{Date: d, HolidayName: name}
			}
		}
	}

	if !validGranularity(candidate.HoursPerDay) {
		return fmt.Errorf("%w: %d hours/day", ErrInvalidHourGranularity, candidate.HoursPerDay)
	}

	total := cfg.TotalAllowanceHours()
	remaining := total.Sub(UsedHours(existing))
	if candidate.TotalHours.GreaterThan(remaining) {
		return &InsufficientBalanceError{Requested: candidate.TotalHours, Remaining: remaining}
	}

	return nil
}

func validGranularity(hoursPerDay int) bool {
	for _, h := range ValidHoursPerDay {
		if hoursPerDay == h {
			return true
		}
	}
	return false
}

// NewEntryID returns an opaque entry identifier.
func NewEntryID() string {
	return fmt.Sprintf("pto-%d", time.Now().UnixNano())
}
