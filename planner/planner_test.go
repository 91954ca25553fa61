package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/planner"
	"github.com/yearplan/planner-engine/pto"
)

func enabledPTO() pto.Config {
	return pto.Config{YearsOfService: 3, RolloverHours: decimal.NewFromInt(20), Enabled: true}
}

func newEntry(start, end string, hours int, name string) pto.Entry {
	return pto.NewEntry("", d(start), d(end), hours, name)
}

// =============================================================================
// CALENDAR LIFECYCLE
// =============================================================================

func TestDefaultState(t *testing.T) {
	s := planner.DefaultState(2025)

	assert.Equal(t, "2025-01-01", s.StartDate.String())
	assert.True(t, s.IncludeWeekends)
	assert.True(t, s.ShowToday)
	require.Len(t, s.Calendars, 1)
	assert.Equal(t, planner.DefaultCalendarName, s.Calendars[0].Name)
	assert.Equal(t, 0, s.Calendars[0].Color)
}

func TestAddCalendar_AssignsDistinctColors(t *testing.T) {
	s := planner.DefaultState(2025)

	seen := map[int]bool{s.Calendars[0].Color: true}
	for i := 1; i < planner.MaxCalendars; i++ {
		cal, err := s.AddCalendar("")
		require.NoError(t, err)
		assert.False(t, seen[cal.Color], "color %d reused", cal.Color)
		seen[cal.Color] = true
	}
}

func TestAddCalendar_CapEnforced(t *testing.T) {
	s := planner.DefaultState(2025)
	for i := 1; i < planner.MaxCalendars; i++ {
		_, err := s.AddCalendar("")
		require.NoError(t, err)
	}

	_, err := s.AddCalendar("one too many")
	assert.ErrorIs(t, err, planner.ErrCalendarLimit)
}

func TestRemoveCalendar_FreesItsColor(t *testing.T) {
	s := planner.DefaultState(2025)
	second, err := s.AddCalendar("B")
	require.NoError(t, err)
	require.Equal(t, 1, second.Color)

	require.NoError(t, s.RemoveCalendar(second.ID))
	third, err := s.AddCalendar("C")
	require.NoError(t, err)
	assert.Equal(t, 1, third.Color)
}

func TestHolidayCalendar_DoesNotCountAgainstCap(t *testing.T) {
	s := planner.DefaultState(2025)
	s.Calendars = append(s.Calendars, planner.HolidayCalendar(holiday.Default(), 2025))

	for i := 1; i < planner.MaxCalendars; i++ {
		_, err := s.AddCalendar("")
		require.NoError(t, err)
	}
	_, err := s.AddCalendar("over")
	assert.ErrorIs(t, err, planner.ErrCalendarLimit)
}

// =============================================================================
// PTO ENTRY MIRRORING
// =============================================================================

func TestAddPTOEntry_MirrorIsDerivedNotStored(t *testing.T) {
	// GIVEN: A calendar with PTO enabled
	// WHEN: Logging an entry
	// THEN: VisibleRanges contains exactly one mirror for it, while the
	//       plain range list stays empty (single source of truth)

	s, id := newState(t)
	require.NoError(t, s.SetPTOConfig(id, enabledPTO()))

	entry, err := s.AddPTOEntry(id, newEntry("2025-03-10", "2025-03-12", 8, "Trip"), holiday.Default())
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	cal, err := s.Calendar(id)
	require.NoError(t, err)
	assert.Empty(t, cal.Ranges)

	visible := cal.VisibleRanges()
	require.Len(t, visible, 1)
	assert.Equal(t, "2025-03-10", visible[0].Start.String())
	assert.Equal(t, "2025-03-12", visible[0].End.String())
	assert.Equal(t, "Trip", visible[0].Description)
}

func TestRemovePTOEntry_RemovesMirrorToo(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetPTOConfig(id, enabledPTO()))
	entry, err := s.AddPTOEntry(id, newEntry("2025-03-10", "2025-03-12", 8, ""), nil)
	require.NoError(t, err)

	require.NoError(t, s.RemovePTOEntry(id, entry.ID))

	cal, _ := s.Calendar(id)
	assert.Empty(t, cal.VisibleRanges())
	assert.ErrorIs(t, s.RemovePTOEntry(id, entry.ID), planner.ErrEntryNotFound)
}

func TestAddPTOEntry_RejectionLeavesStateUnchanged(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetPTOConfig(id, enabledPTO()))

	_, err := s.AddPTOEntry(id, newEntry("2025-07-04", "2025-07-04", 8, ""), holiday.Default())
	require.ErrorIs(t, err, pto.ErrHolidayBlocked)

	entries, err := s.PTOEntriesFor(id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddPTOEntry_WithoutConfigRejected(t *testing.T) {
	s, id := newState(t)

	_, err := s.AddPTOEntry(id, newEntry("2025-03-10", "2025-03-10", 8, ""), nil)
	assert.ErrorIs(t, err, pto.ErrPTONotEnabled)
}

func TestSummaryFor(t *testing.T) {
	s, id := newState(t)
	require.NoError(t, s.SetPTOConfig(id, enabledPTO()))
	_, err := s.AddPTOEntry(id, newEntry("2025-01-15", "2025-01-15", 8, ""), holiday.Default())
	require.NoError(t, err)
	_, err = s.AddPTOEntry(id, newEntry("2025-02-10", "2025-02-10", 4, ""), holiday.Default())
	require.NoError(t, err)

	sum, err := s.SummaryFor(id)
	require.NoError(t, err)
	assert.True(t, sum.TotalHours.Equal(decimal.NewFromInt(188)), "TotalHours=%s", sum.TotalHours)
	assert.True(t, sum.UsedHours.Equal(decimal.NewFromInt(12)), "UsedHours=%s", sum.UsedHours)
	assert.True(t, sum.RemainingHours.Equal(decimal.NewFromInt(176)), "RemainingHours=%s", sum.RemainingHours)
}
