/*
ranges.go - The date-range algebra

PURPOSE:
  Maintains a calendar's set of non-overlapping inclusive ranges under the
  two edit gestures the UI produces:

    click  -> ToggleDate: mark a day, or poke a hole in the range that
              covers it (splitting it into up to two remainders)
    drag   -> SetRange: add a whole span in one go

  Plus the containment queries rendering needs.

SPLIT SEMANTICS:
  Toggling a covered date d inside [start, end] removes that range and
  re-inserts:
    [start, d-1]  when start < d
    [d+1, end]    when end > d
  Toggling the sole day of a singleton range therefore re-inserts nothing:
  the range simply disappears. No empty-interval ranges can ever be
  produced.

NO MERGE ON DRAG:
  SetRange does NOT merge the new span with adjacent or overlapping
  ranges; superimposed ranges are tolerated and rendering may stack them.
*/
package planner

import "github.com/yearplan/planner-engine/dates"

// =============================================================================
// PURE ALGEBRA - operates on range slices, no calendar involved
// =============================================================================

// FindRangeContaining returns the range whose closed interval contains d,
// or nil. Given the non-overlap invariant at most one range can match.
func FindRangeContaining(d dates.Date, ranges []DateRange) *DateRange {
	for i := range ranges {
		if ranges[i].Contains(d) {
			return &ranges[i]
		}
	}
	return nil
}

// toggleRanges returns the replacement range set after toggling d.
func toggleRanges(d dates.Date, ranges []DateRange) []DateRange {
	ownerIdx := -1
	for i := range ranges {
		if ranges[i].Contains(d) {
			ownerIdx = i
			break
		}
	}
	if ownerIdx == -1 {
		out := make([]DateRange, 0, len(ranges)+1)
		out = append(out, ranges...)
		return append(out, DateRange{Start: d, End: d})
	}

	owner := ranges[ownerIdx]
	out := make([]DateRange, 0, len(ranges)+1)
	out = append(out, ranges[:ownerIdx]...)
	out = append(out, ranges[ownerIdx+1:]...)
	if owner.Start.Before(d) {
		out = append(out, DateRange{Start: owner.Start, End: d.AddDays(-1), Description: owner.Description})
	}
	if owner.End.After(d) {
		out = append(out, DateRange{Start: d.AddDays(1), End: owner.End, Description: owner.Description})
	}
	return out
}

// insertRange returns the range set with [start, end] added, endpoints
// swapped into order first. Overlap with existing ranges is tolerated.
func insertRange(start, end dates.Date, ranges []DateRange, description string) []DateRange {
	if end.Before(start) {
		start, end = end, start
	}
	out := make([]DateRange, 0, len(ranges)+1)
	out = append(out, ranges...)
	return append(out, DateRange{Start: start, End: end, Description: description})
}

// =============================================================================
// STATE OPERATIONS
// =============================================================================

// ToggleDate applies the click gesture to a calendar.
func (s *AppState) ToggleDate(calendarID string, d dates.Date) error {
	cal, err := s.mutableCalendar(calendarID)
	if err != nil {
		return err
	}
	cal.Ranges = toggleRanges(d, cal.Ranges)
	return nil
}

// SetRange applies the drag gesture to a calendar.
func (s *AppState) SetRange(calendarID string, start, end dates.Date) error {
	cal, err := s.mutableCalendar(calendarID)
	if err != nil {
		return err
	}
	cal.Ranges = insertRange(start, end, cal.Ranges, "")
	return nil
}

// RangesCoveringDate returns the calendars that have an event on d
// (plain ranges or PTO mirrors), in calendar list order.
func (s *AppState) RangesCoveringDate(d dates.Date) []*Calendar {
	var out []*Calendar
	for i := range s.Calendars {
		if FindRangeContaining(d, s.Calendars[i].VisibleRanges()) != nil {
			out = append(out, &s.Calendars[i])
		}
	}
	return out
}
