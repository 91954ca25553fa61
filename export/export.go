/*
Package export formats planner data for external consumption.

PURPOSE:
  Turns a calendar's PTO entries and ranges into CSV, JSON, and iCalendar
  documents. This layer only reads: it consumes the core's read-only
  accessors and performs no validation, and the core performs no
  formatting. Each writer streams to an io.Writer so the HTTP facade can
  pipe straight into a response.

SEE ALSO:
  - planner: the accessors this package consumes
  - api: export endpoints
*/
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/yearplan/planner-engine/planner"
	"github.com/yearplan/planner-engine/pto"
)

// =============================================================================
// CSV
// =============================================================================

// EntriesCSV writes one row per PTO entry plus a trailing summary block.
func EntriesCSV(w io.Writer, calendarName string, entries []pto.Entry, summary pto.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Calendar", "Name", "Start", "End", "Hours/Day", "Total Hours"}); err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "PTO"
		}
		row := []string{
			calendarName,
			name,
			e.Start.String(),
			e.End.String(),
			fmt.Sprintf("%d", e.HoursPerDay),
			e.TotalHours.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	summaryRows := [][]string{
		{},
		{"Total Hours", summary.TotalHours.String()},
		{"Used Hours", summary.UsedHours.String()},
		{"Remaining Hours", summary.RemainingHours.String()},
		{"Remaining Days", summary.RemainingDays.String()},
	}
	for _, row := range summaryRows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// =============================================================================
// JSON
// =============================================================================

type jsonReport struct {
	ExportedAt string        `json:"exported_at"`
	Calendar   string        `json:"calendar"`
	Count      int           `json:"count"`
	Entries    []jsonEntry   `json:"entries"`
	Summary    jsonSummary   `json:"summary"`
}

type jsonEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	HoursPerDay int     `json:"hours_per_day"`
	TotalHours  float64 `json:"total_hours"`
}

type jsonSummary struct {
	TotalHours     float64 `json:"total_hours"`
	UsedHours      float64 `json:"used_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	TotalDays      float64 `json:"total_days"`
	UsedDays       float64 `json:"used_days"`
	RemainingDays  float64 `json:"remaining_days"`
}

// EntriesJSON writes the PTO report as a single JSON document.
func EntriesJSON(w io.Writer, calendarName string, entries []pto.Entry, summary pto.Summary) error {
	report := jsonReport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Calendar:   calendarName,
		Count:      len(entries),
		Entries:    []jsonEntry{},
		Summary: jsonSummary{
			TotalHours:     summary.TotalHours.InexactFloat64(),
			UsedHours:      summary.UsedHours.InexactFloat64(),
			RemainingHours: summary.RemainingHours.InexactFloat64(),
			TotalDays:      summary.TotalDays.InexactFloat64(),
			UsedDays:       summary.UsedDays.InexactFloat64(),
			RemainingDays:  summary.RemainingDays.InexactFloat64(),
		},
	}
	for _, e := range entries {
		report.Entries = append(report.Entries, jsonEntry{
			ID:          e.ID,
			Name:        e.Name,
			Start:       e.Start.String(),
			End:         e.End.String(),
			HoursPerDay: e.HoursPerDay,
			TotalHours:  e.TotalHours.InexactFloat64(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// =============================================================================
// ICALENDAR
// =============================================================================

// CalendarICS writes a calendar's visible ranges (plain ranges and PTO
// mirrors alike) as all-day VEVENTs.
func CalendarICS(w io.Writer, cal *planner.Calendar) error {
	doc := ics.NewCalendar()
	doc.SetMethod(ics.MethodPublish)
	doc.SetProductId("-//yearplan//planner-engine//EN")
	doc.SetXWRCalName(cal.Name)

	now := time.Now().UTC()
	for i, r := range cal.VisibleRanges() {
		event := doc.AddEvent(fmt.Sprintf("%s-%d@yearplan", cal.ID, i))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC))
		// DTEND is exclusive for all-day events.
		end := r.End.AddDays(1)
		event.SetAllDayEndAt(time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC))
		summary := r.Description
		if summary == "" {
			summary = cal.Name
		}
		event.SetSummary(summary)
	}

	return doc.SerializeTo(w)
}
