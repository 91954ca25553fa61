package holiday_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/holiday"
)

func TestIsHoliday_KnownYear(t *testing.T) {
	table := holiday.Default()

	assert.True(t, table.IsHoliday(dates.MustParse("2025-07-04")))
	assert.True(t, table.IsHoliday(dates.MustParse("2025-12-25")))
	assert.False(t, table.IsHoliday(dates.MustParse("2025-07-05")))

	name, ok := table.Name(dates.MustParse("2025-07-04"))
	require.True(t, ok)
	assert.Equal(t, "Independence Day", name)
}

func TestIsHoliday_FloatingHolidaysDifferPerYear(t *testing.T) {
	// Labor Day: Sep 1 in 2025, Sep 7 in 2026.
	table := holiday.Default()

	assert.True(t, table.IsHoliday(dates.MustParse("2025-09-01")))
	assert.False(t, table.IsHoliday(dates.MustParse("2026-09-01")))
	assert.True(t, table.IsHoliday(dates.MustParse("2026-09-07")))
}

func TestIsHoliday_UnknownYearFallsBackToDefault(t *testing.T) {
	// GIVEN: No table exists for 2031
	// WHEN: Looking up the default year's MLK date (Jan 20) in 2031
	// THEN: The 2025 table answers; the fallback is deliberate policy

	table := holiday.Default()

	assert.True(t, table.IsHoliday(dates.MustParse("2031-01-20")))
	assert.True(t, table.IsHoliday(dates.MustParse("2031-07-04")))
	assert.False(t, table.IsHoliday(dates.MustParse("2031-01-15")))
}

func TestYear_OrderedEnumeration(t *testing.T) {
	table := holiday.Default()

	entries := table.Year(2025)
	require.Len(t, entries, 10)
	assert.Equal(t, "New Year's Day", entries[0].Name)
	assert.Equal(t, "2025-01-01", entries[0].Date.String())
	assert.Equal(t, "Christmas Day", entries[len(entries)-1].Name)

	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Date.Before(entries[i].Date), "entries must be date-ordered")
	}
}

func TestYear_FallbackEnumerationUsesRequestedYear(t *testing.T) {
	table := holiday.Default()

	entries := table.Year(2031)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, 2031, e.Date.Year())
	}
}

func TestApplyOverlayFile(t *testing.T) {
	table := holiday.Default()

	overlay := []byte(`
holidays:
  2025:
    - date: "03-17"
      name: "Company Founding Day"
    - date: "12-25"
      name: "Winter Closure"
`)
	require.NoError(t, table.ApplyOverlay(overlay))

	name, ok := table.Name(dates.MustParse("2025-03-17"))
	require.True(t, ok)
	assert.Equal(t, "Company Founding Day", name)

	// Overlay wins over built-in on the same date.
	name, _ = table.Name(dates.MustParse("2025-12-25"))
	assert.Equal(t, "Winter Closure", name)
}

func TestApplyOverlay_BadEntryRejected(t *testing.T) {
	table := holiday.Default()
	err := table.ApplyOverlay([]byte("holidays:\n  2025:\n    - date: \"3-17\"\n      name: \"x\"\n"))
	assert.Error(t, err)
}
