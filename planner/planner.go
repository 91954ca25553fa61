/*
Package planner holds the application state and the date-range algebra.

PURPOSE:
  The planner models several named calendars (one per person or team),
  each owning a set of non-overlapping date ranges and, optionally, a PTO
  policy with logged entries. This package is the single writer of that
  state: every mutation goes through a method that validates first and
  changes nothing on rejection.

KEY CONCEPTS:
  - AppState:   The caller-owned state value. There is no ambient
                singleton; whoever holds the AppState owns it and
                serializes access to it.
  - Calendar:   Named, colored collection of ranges + optional PTO data.
  - DateRange:  Inclusive [start, end] span marked "on" for a calendar.
  - IsSpecial:  Read-only system calendars (the holiday calendar). All
                mutations against them fail with ErrReadOnlyCalendar.

INVARIANTS:
  - No two ranges in one calendar overlap. Maintained entirely by the
    toggle algebra in ranges.go; SetRange (drag-select) deliberately
    tolerates overlap, see that file.
  - A PTO entry's span is visible as exactly one range. The entry is the
    source of truth; the range is derived (VisibleRanges), so the two can
    never drift apart.
  - Rejected mutations leave state byte-for-byte unchanged.

SEE ALSO:
  - ranges.go: the non-overlap algebra
  - ptoops.go: PTO mutations and read-only accessors
  - codec: serializes AppState to a shareable token
*/
package planner

import (
	"fmt"
	"time"

	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/pto"
)

// MaxCalendars caps how many user calendars can exist at once. The derived
// holiday calendar does not count against it.
const MaxCalendars = 8

// DefaultCalendarName is the placeholder name for freshly created
// calendars. The codec omits names equal to it.
const DefaultCalendarName = "My Calendar"

// HolidayCalendarID identifies the derived read-only holiday calendar.
const HolidayCalendarID = "holidays"

// =============================================================================
// COLOR PALETTE
// =============================================================================

// Color is one palette slot. Calendars store the palette index, not the
// hex value, so the palette can be restyled without touching saved state.
type Color struct {
	Name string
	Hex  string
}

// Palette is the fixed set of calendar colors.
var Palette = []Color{
	{Name: "teal", Hex: "#14b8a6"},
	{Name: "indigo", Hex: "#6366f1"},
	{Name: "amber", Hex: "#f59e0b"},
	{Name: "rose", Hex: "#f43f5e"},
	{Name: "emerald", Hex: "#10b981"},
	{Name: "sky", Hex: "#0ea5e9"},
	{Name: "violet", Hex: "#8b5cf6"},
	{Name: "orange", Hex: "#f97316"},
}

// =============================================================================
// MODEL
// =============================================================================

// DateRange is an inclusive calendar-date span. Start <= End always.
type DateRange struct {
	Start       dates.Date
	End         dates.Date
	Description string
}

// Contains reports whether d falls inside the closed interval.
func (r DateRange) Contains(d dates.Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Calendar is one person's or team's schedule.
type Calendar struct {
	ID         string
	Name       string
	Color      int // index into Palette; -1 for the holiday calendar
	Ranges     []DateRange
	PTO        *pto.Config
	PTOEntries []pto.Entry
	IsSpecial  bool
}

// VisibleRanges returns the ranges a renderer should draw: the plain
// ranges plus one derived range per PTO entry. The derived ranges are
// recomputed on every call, never stored.
func (c *Calendar) VisibleRanges() []DateRange {
	out := make([]DateRange, 0, len(c.Ranges)+len(c.PTOEntries))
	out = append(out, c.Ranges...)
	for _, e := range c.PTOEntries {
		out = append(out, RangeForEntry(e))
	}
	return out
}

// RangeForEntry derives the visible range mirroring a PTO entry.
func RangeForEntry(e pto.Entry) DateRange {
	desc := e.Name
	if desc == "" {
		desc = "PTO"
	}
	return DateRange{Start: e.Start, End: e.End, Description: desc}
}

// AppState is the whole application state: the year being planned,
// display flags, and the calendar list.
type AppState struct {
	StartDate       dates.Date // always January 1 of the planned year
	IncludeWeekends bool
	ShowToday       bool
	Calendars       []Calendar
}

// DefaultState returns the state a first-time user sees: the given year,
// both display flags on, one empty default calendar.
func DefaultState(year int) AppState {
	return AppState{
		StartDate:       dates.New(year, time.January, 1),
		IncludeWeekends: true,
		ShowToday:       true,
		Calendars:       []Calendar{NewCalendar(DefaultCalendarName, 0)},
	}
}

// NewCalendar builds an empty user calendar.
func NewCalendar(name string, color int) Calendar {
	return Calendar{
		ID:    newCalendarID(),
		Name:  name,
		Color: color,
	}
}

func newCalendarID() string {
	return fmt.Sprintf("cal-%d", time.Now().UnixNano())
}

// HolidayCalendar derives the read-only system calendar for a year from
// the holiday table. It is rebuilt on demand and never persisted.
func HolidayCalendar(table *holiday.Table, year int) Calendar {
	cal := Calendar{
		ID:        HolidayCalendarID,
		Name:      "Holidays",
		Color:     -1,
		IsSpecial: true,
	}
	for _, e := range table.Year(year) {
		cal.Ranges = append(cal.Ranges, DateRange{Start: e.Date, End: e.Date, Description: e.Name})
	}
	return cal
}

// =============================================================================
// CALENDAR LIST OPERATIONS
// =============================================================================

// Calendar finds a calendar by ID.
func (s *AppState) Calendar(id string) (*Calendar, error) {
	for i := range s.Calendars {
		if s.Calendars[i].ID == id {
			return &s.Calendars[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCalendarNotFound, id)
}

// mutableCalendar finds a calendar and rejects special ones.
func (s *AppState) mutableCalendar(id string) (*Calendar, error) {
	cal, err := s.Calendar(id)
	if err != nil {
		return nil, err
	}
	if cal.IsSpecial {
		return nil, fmt.Errorf("%w: %s", ErrReadOnlyCalendar, id)
	}
	return cal, nil
}

// AddCalendar appends a new calendar, picking the first unclaimed palette
// color. Fails when the cap is reached.
func (s *AppState) AddCalendar(name string) (*Calendar, error) {
	if s.userCalendarCount() >= MaxCalendars {
		return nil, fmt.Errorf("%w: at most %d calendars", ErrCalendarLimit, MaxCalendars)
	}
	if name == "" {
		name = DefaultCalendarName
	}
	cal := NewCalendar(name, s.NextColor())
	s.Calendars = append(s.Calendars, cal)
	return &s.Calendars[len(s.Calendars)-1], nil
}

// RemoveCalendar deletes a calendar and everything it owns.
func (s *AppState) RemoveCalendar(id string) error {
	if _, err := s.mutableCalendar(id); err != nil {
		return err
	}
	for i := range s.Calendars {
		if s.Calendars[i].ID == id {
			s.Calendars = append(s.Calendars[:i], s.Calendars[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCalendarNotFound, id)
}

// RenameCalendar sets a calendar's display name.
func (s *AppState) RenameCalendar(id, name string) error {
	cal, err := s.mutableCalendar(id)
	if err != nil {
		return err
	}
	cal.Name = name
	return nil
}

func (s *AppState) userCalendarCount() int {
	n := 0
	for i := range s.Calendars {
		if !s.Calendars[i].IsSpecial {
			n++
		}
	}
	return n
}

// NextColor returns the first palette index not claimed by a user
// calendar, falling back to a modulo pick when the palette is exhausted.
func (s *AppState) NextColor() int {
	claimed := make(map[int]bool, len(s.Calendars))
	for i := range s.Calendars {
		if !s.Calendars[i].IsSpecial {
			claimed[s.Calendars[i].Color] = true
		}
	}
	for slot := range Palette {
		if !claimed[slot] {
			return slot
		}
	}
	return s.userCalendarCount() % len(Palette)
}

// Year returns the planned year.
func (s *AppState) Year() int { return s.StartDate.Year() }
