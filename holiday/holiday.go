/*
Package holiday provides year-aware holiday lookup.

PURPOSE:
  PTO validation must reject requests landing on company holidays, and the
  planner renders a read-only holiday calendar. Both need one thing: a fast
  answer to "is this date a holiday, and what is it called?".

KEY CONCEPTS:
  - Table:        year -> "MM-DD" -> holiday name, immutable after setup
  - DefaultYear:  lookups for years without a table fall back to the
                  default year's entries

FALLBACK POLICY:
  An unknown year reuses the default year's table. Floating holidays
  (Memorial Day, Thanksgiving) will be a few days off in fallback years,
  which is accepted: a slightly wrong holiday block beats no block at all.
  This is a deliberate policy choice, not a bug.

OVERLAYS:
  Companies add their own days via a YAML overlay file:

    default_year: 2025
    holidays:
      2025:
        - date: "03-17"
          name: "Company Founding Day"

SEE ALSO:
  - pto: holiday checks in the validation chain
  - planner: derived read-only holiday calendar
*/
package holiday

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yearplan/planner-engine/dates"
)

// DefaultYear is the fallback table used for years without explicit entries.
const DefaultYear = 2025

// =============================================================================
// TABLE - Year-keyed month-day lookup
// =============================================================================

type Table struct {
	years       map[int]map[string]string
	defaultYear int
}

// Entry is one named holiday on a concrete date, used when enumerating
// a year (e.g. to build the derived holiday calendar).
type Entry struct {
	Date dates.Date
	Name string
}

// NewTable returns an empty table with the given fallback year.
func NewTable(defaultYear int) *Table {
	return &Table{years: make(map[int]map[string]string), defaultYear: defaultYear}
}

// Default returns the built-in US holiday table.
func Default() *Table {
	t := NewTable(DefaultYear)
	for year, entries := range usHolidays {
		for md, name := range entries {
			t.Add(year, md, name)
		}
	}
	return t
}

// Add registers a holiday. monthDay is "MM-DD".
func (t *Table) Add(year int, monthDay, name string) {
	if t.years[year] == nil {
		t.years[year] = make(map[string]string)
	}
	t.years[year][monthDay] = name
}

// tableFor returns the entries for a year, falling back to the default
// year when the requested year has no table at all.
func (t *Table) tableFor(year int) map[string]string {
	if entries, ok := t.years[year]; ok {
		return entries
	}
	return t.years[t.defaultYear]
}

func monthDayKey(d dates.Date) string {
	return fmt.Sprintf("%02d-%02d", int(d.Month()), d.Day())
}

// IsHoliday reports whether the date is a holiday. O(1).
func (t *Table) IsHoliday(d dates.Date) bool {
	_, ok := t.Name(d)
	return ok
}

// Name returns the holiday name for a date, if any. O(1).
func (t *Table) Name(d dates.Date) (string, bool) {
	entries := t.tableFor(d.Year())
	if entries == nil {
		return "", false
	}
	name, ok := entries[monthDayKey(d)]
	return name, ok
}

// Year enumerates the holidays effective for a year (after fallback),
// ordered by date.
func (t *Table) Year(year int) []Entry {
	entries := t.tableFor(year)
	if entries == nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for md := range entries {
		keys = append(keys, md)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, md := range keys {
		d, err := dates.Parse(fmt.Sprintf("%04d-%s", year, md))
		if err != nil {
			continue // e.g. 02-29 applied to a non-leap fallback year
		}
		out = append(out, Entry{Date: d, Name: entries[md]})
	}
	return out
}

// =============================================================================
// YAML OVERLAY
// =============================================================================

type overlayFile struct {
	DefaultYear int                       `yaml:"default_year"`
	Holidays    map[int][]overlayHoliday  `yaml:"holidays"`
}

type overlayHoliday struct {
	Date string `yaml:"date"` // "MM-DD"
	Name string `yaml:"name"`
}

// ApplyOverlayFile merges a YAML overlay into the table. Overlay entries
// win over built-ins on the same date.
func (t *Table) ApplyOverlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read holiday overlay: %w", err)
	}
	return t.ApplyOverlay(data)
}

// ApplyOverlay merges overlay YAML provided as bytes.
func (t *Table) ApplyOverlay(data []byte) error {
	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse holiday overlay: %w", err)
	}
	if f.DefaultYear != 0 {
		t.defaultYear = f.DefaultYear
	}
	for year, hs := range f.Holidays {
		for _, h := range hs {
			if len(h.Date) != 5 || h.Name == "" {
				return fmt.Errorf("holiday overlay: bad entry %q (%q) for year %d", h.Date, h.Name, year)
			}
			t.Add(year, h.Date, h.Name)
		}
	}
	return nil
}

// =============================================================================
// BUILT-IN US HOLIDAYS
// =============================================================================
// Floating holidays are pinned to their actual dates per year.

var usHolidays = map[int]map[string]string{
	2024: {
		"01-01": "New Year's Day",
		"01-15": "Martin Luther King Jr. Day",
		"02-19": "Presidents' Day",
		"05-27": "Memorial Day",
		"06-19": "Juneteenth",
		"07-04": "Independence Day",
		"09-02": "Labor Day",
		"11-28": "Thanksgiving",
		"11-29": "Day After Thanksgiving",
		"12-25": "Christmas Day",
	},
	2025: {
		"01-01": "New Year's Day",
		"01-20": "Martin Luther King Jr. Day",
		"02-17": "Presidents' Day",
		"05-26": "Memorial Day",
		"06-19": "Juneteenth",
		"07-04": "Independence Day",
		"09-01": "Labor Day",
		"11-27": "Thanksgiving",
		"11-28": "Day After Thanksgiving",
		"12-25": "Christmas Day",
	},
	2026: {
		"01-01": "New Year's Day",
		"01-19": "Martin Luther King Jr. Day",
		"02-16": "Presidents' Day",
		"05-25": "Memorial Day",
		"06-19": "Juneteenth",
		"07-04": "Independence Day",
		"09-07": "Labor Day",
		"11-26": "Thanksgiving",
		"11-27": "Day After Thanksgiving",
		"12-25": "Christmas Day",
	},
}
