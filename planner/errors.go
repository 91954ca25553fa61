/*
errors.go - Error kinds for state mutations

PURPOSE:
  Sentinel errors for every way a calendar mutation can be rejected.
  The HTTP facade maps each kind to a specific status and message, so
  no rejection may ever be a silent no-op.
*/
package planner

import "errors"

var (
	// ErrReadOnlyCalendar is returned for any mutation against a special
	// (system) calendar such as the holiday calendar.
	ErrReadOnlyCalendar = errors.New("calendar is read-only")

	// ErrCalendarNotFound is returned when no calendar has the given ID.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrCalendarLimit is returned when adding a calendar would exceed
	// the cap.
	ErrCalendarLimit = errors.New("calendar limit reached")

	// ErrEntryNotFound is returned when no PTO entry has the given ID.
	ErrEntryNotFound = errors.New("pto entry not found")
)

// IsClientError reports whether an error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrReadOnlyCalendar) ||
		errors.Is(err, ErrCalendarNotFound) ||
		errors.Is(err, ErrCalendarLimit) ||
		errors.Is(err, ErrEntryNotFound)
}
