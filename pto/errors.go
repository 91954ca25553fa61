/*
errors.go - Validation error kinds for the PTO engine

PURPOSE:
  Every rejection the validation chain can produce, as sentinel errors
  plus structured variants carrying the context the UI needs to render a
  specific message. Callers match with errors.Is / errors.As.

SEE ALSO:
  - pto.go: the validation chain producing these
*/
package pto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yearplan/planner-engine/dates"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPTONotEnabled is returned when the calendar's policy has PTO
	// tracking switched off.
	ErrPTONotEnabled = errors.New("pto is not enabled for this calendar")

	// ErrHolidayBlocked is returned when a request starts or ends on a
	// holiday.
	ErrHolidayBlocked = errors.New("requested date falls on a holiday")

	// ErrInvalidHourGranularity is returned when hours/day is not one of
	// 2, 4, or 8.
	ErrInvalidHourGranularity = errors.New("hours per day must be 2, 4, or 8")

	// ErrInsufficientBalance is returned when a request exceeds the
	// remaining allowance.
	ErrInsufficientBalance = errors.New("insufficient pto balance")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HolidayBlockedError names the offending date and holiday.
type HolidayBlockedError struct {
	Date        dates.Date
	HolidayName string
}

func (e *HolidayBlockedError) Error() string {
	return fmt.Sprintf("%s is a holiday (%s)", e.Date, e.HolidayName)
}

func (e *HolidayBlockedError) Unwrap() error { return ErrHolidayBlocked }

// InsufficientBalanceError reports how far short the balance falls.
type InsufficientBalanceError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s hours, %s remaining",
		e.Requested, e.Remaining)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// IsValidationError reports whether err is one of the request-rejection
// kinds (as opposed to an internal failure).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrPTONotEnabled) ||
		errors.Is(err, ErrHolidayBlocked) ||
		errors.Is(err, ErrInvalidHourGranularity) ||
		errors.Is(err, ErrInsufficientBalance)
}
