package planner_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/planner"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) dates.Date { return dates.MustParse(s) }

func newState(t *testing.T) (*planner.AppState, string) {
	t.Helper()
	state := planner.DefaultState(2025)
	require.Len(t, state.Calendars, 1)
	return &state, state.Calendars[0].ID
}

func rangePairs(ranges []planner.DateRange) []string {
	pairs := make([]string, len(ranges))
	for i, r := range ranges {
		pairs[i] = r.Start.String() + ".." + r.End.String()
	}
	sort.Strings(pairs)
	return pairs
}

func calRanges(t *testing.T, s *planner.AppState, id string) []planner.DateRange {
	t.Helper()
	cal, err := s.Calendar(id)
	require.NoError(t, err)
	return cal.Ranges
}

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestToggleDate_EmptyAddsSingleton(t *testing.T) {
	s, id := newState(t)

	require.NoError(t, s.ToggleDate(id, d("2025-03-10")))
	assert.Equal(t, []string{"2025-03-10..2025-03-10"}, rangePairs(calRanges(t, s, id)))
}

func TestToggleDate_SingletonCollapsesToNothing(t *testing.T) {
	// GIVEN: A calendar whose only range is the singleton [Mar 10, Mar 10]
	// WHEN: Toggling Mar 10 again
	// THEN: Zero ranges remain; no empty-interval range is produced

	s, id := newState(t)
	require.NoError(t, s.ToggleDate(id, d("2025-03-10")))
	require.NoError(t, s.ToggleDate(id, d("2025-03-10")))

	assert.Empty(t, calRanges(t, s, id))
}

func TestToggleDate_PokesHoleInMiddle(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetRange(id, d("2025-03-10"), d("2025-03-14")))

	require.NoError(t, s.ToggleDate(id, d("2025-03-12")))
	assert.Equal(t,
		[]string{"2025-03-10..2025-03-11", "2025-03-13..2025-03-14"},
		rangePairs(calRanges(t, s, id)))
}

func TestToggleDate_TrimsLeftEdge(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetRange(id, d("2025-03-10"), d("2025-03-14")))

	require.NoError(t, s.ToggleDate(id, d("2025-03-10")))
	assert.Equal(t, []string{"2025-03-11..2025-03-14"}, rangePairs(calRanges(t, s, id)))
}

func TestToggleDate_TrimsRightEdge(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetRange(id, d("2025-03-10"), d("2025-03-14")))

	require.NoError(t, s.ToggleDate(id, d("2025-03-14")))
	assert.Equal(t, []string{"2025-03-10..2025-03-13"}, rangePairs(calRanges(t, s, id)))
}

func TestToggleDate_TwiceIsIdentity(t *testing.T) {
	// GIVEN: A multi-range calendar
	// WHEN: Toggling any date twice
	// THEN: The range set is restored

	s, id := newState(t)
	require.NoError(t, s.SetRange(id, d("2025-03-10"), d("2025-03-14")))
	require.NoError(t, s.SetRange(id, d("2025-06-02"), d("2025-06-06")))
	before := rangePairs(calRanges(t, s, id))

	for _, day := range []string{"2025-03-12", "2025-03-10", "2025-06-06", "2025-08-01"} {
		require.NoError(t, s.ToggleDate(id, d(day)))
		require.NoError(t, s.ToggleDate(id, d(day)))
		assert.Equal(t, before, rangePairs(calRanges(t, s, id)), "toggle-twice at %s", day)
	}
}

// =============================================================================
// DRAG-SELECT TESTS
// =============================================================================

func TestSetRange_SwapsReversedEndpoints(t *testing.T) {
	s, id := newState(t)

	require.NoError(t, s.SetRange(id, d("2025-03-14"), d("2025-03-10")))
	assert.Equal(t, []string{"2025-03-10..2025-03-14"}, rangePairs(calRanges(t, s, id)))
}

func TestSetRange_DoesNotMergeOverlap(t *testing.T) {
	// Drag-added ranges are NOT merged with overlapping neighbors; the
	// superimposed ranges are kept as-is.
	s, id := newState(t)
	require.NoError(t, s.SetRange(id, d("2025-03-10"), d("2025-03-14")))
	require.NoError(t, s.SetRange(id, d("2025-03-12"), d("2025-03-20")))

	assert.Len(t, calRanges(t, s, id), 2)
}

// =============================================================================
// CONTAINMENT QUERIES
// =============================================================================

func TestFindRangeContaining(t *testing.T) {
	ranges := []planner.DateRange{
		{Start: d("2025-03-10"), End: d("2025-03-14")},
		{Start: d("2025-06-01"), End: d("2025-06-01")},
	}

	r := planner.FindRangeContaining(d("2025-03-14"), ranges)
	require.NotNil(t, r)
	assert.Equal(t, "2025-03-10", r.Start.String())

	assert.Nil(t, planner.FindRangeContaining(d("2025-03-15"), ranges))
	assert.NotNil(t, planner.FindRangeContaining(d("2025-06-01"), ranges))
}

func TestRangesCoveringDate_ListOrderAndPTOMirrors(t *testing.T) {
	s, firstID := newState(t)
	second, err := s.AddCalendar("Team B")
	require.NoError(t, err)

	require.NoError(t, s.SetRange(firstID, d("2025-03-10"), d("2025-03-14")))
	require.NoError(t, s.SetPTOConfig(second.ID, enabledPTO()))
	_, err = s.AddPTOEntry(second.ID, newEntry("2025-03-12", "2025-03-12", 8, "dentist"), holiday.Default())
	require.NoError(t, err)

	covering := s.RangesCoveringDate(d("2025-03-12"))
	require.Len(t, covering, 2)
	assert.Equal(t, firstID, covering[0].ID, "calendar list order preserved")
	assert.Equal(t, second.ID, covering[1].ID, "PTO mirror counts as coverage")

	assert.Empty(t, s.RangesCoveringDate(d("2025-03-15")))
}

// =============================================================================
// READ-ONLY CALENDAR GUARD
// =============================================================================

func TestSpecialCalendar_RejectsAllMutations(t *testing.T) {
	s, _ := newState(t)
	holidayCal := planner.HolidayCalendar(holiday.Default(), 2025)
	s.Calendars = append(s.Calendars, holidayCal)

	assert.ErrorIs(t, s.ToggleDate(planner.HolidayCalendarID, d("2025-03-10")), planner.ErrReadOnlyCalendar)
	assert.ErrorIs(t, s.SetRange(planner.HolidayCalendarID, d("2025-03-10"), d("2025-03-14")), planner.ErrReadOnlyCalendar)
	assert.ErrorIs(t, s.RemoveCalendar(planner.HolidayCalendarID), planner.ErrReadOnlyCalendar)
	assert.ErrorIs(t, s.RenameCalendar(planner.HolidayCalendarID, "x"), planner.ErrReadOnlyCalendar)
	assert.ErrorIs(t, s.SetPTOConfig(planner.HolidayCalendarID, enabledPTO()), planner.ErrReadOnlyCalendar)

	_, err := s.AddPTOEntry(planner.HolidayCalendarID, newEntry("2025-03-10", "2025-03-10", 8, ""), nil)
	assert.ErrorIs(t, err, planner.ErrReadOnlyCalendar)

	// The holiday ranges themselves are untouched.
	cal, err := s.Calendar(planner.HolidayCalendarID)
	require.NoError(t, err)
	assert.Equal(t, len(holidayCal.Ranges), len(cal.Ranges))
}

func TestMutation_UnknownCalendar(t *testing.T) {
	s, _ := newState(t)
	assert.ErrorIs(t, s.ToggleDate("nope", d("2025-03-10")), planner.ErrCalendarNotFound)
}
