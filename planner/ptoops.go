/*
ptoops.go - PTO mutations and the read-only export accessors

PURPOSE:
  Wires the pto validation engine into the state: adding an entry runs the
  full rule chain first and writes nothing on rejection. The accessors at
  the bottom are what the export/report layer consumes; they perform no
  formatting and the export layer performs no validation.
*/
package planner

import (
	"fmt"

	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/pto"
)

// SetPTOConfig enables or reconfigures PTO tracking for a calendar.
func (s *AppState) SetPTOConfig(calendarID string, cfg pto.Config) error {
	cal, err := s.mutableCalendar(calendarID)
	if err != nil {
		return err
	}
	cal.PTO = &cfg
	return nil
}

// AddPTOEntry validates and logs a time-off entry. The entry's visible
// range is derived, not stored, so entry and range can never diverge.
// On any validation failure the state is left unchanged.
func (s *AppState) AddPTOEntry(calendarID string, entry pto.Entry, holidays *holiday.Table) (pto.Entry, error) {
	cal, err := s.mutableCalendar(calendarID)
	if err != nil {
		return pto.Entry{}, err
	}

	cfg := pto.Config{}
	if cal.PTO != nil {
		cfg = *cal.PTO
	}
	if err := pto.Validate(cfg, cal.PTOEntries, entry, holidays); err != nil {
		return pto.Entry{}, err
	}

	if entry.ID == "" {
		entry.ID = pto.NewEntryID()
	}
	cal.PTOEntries = append(cal.PTOEntries, entry)
	return entry, nil
}

// RemovePTOEntry deletes an entry; its mirrored range disappears with it.
func (s *AppState) RemovePTOEntry(calendarID, entryID string) error {
	cal, err := s.mutableCalendar(calendarID)
	if err != nil {
		return err
	}
	for i := range cal.PTOEntries {
		if cal.PTOEntries[i].ID == entryID {
			cal.PTOEntries = append(cal.PTOEntries[:i], cal.PTOEntries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// =============================================================================
// READ-ONLY ACCESSORS (export collaborator interface)
// =============================================================================

// PTOEntriesFor returns a calendar's logged entries.
func (s *AppState) PTOEntriesFor(calendarID string) ([]pto.Entry, error) {
	cal, err := s.Calendar(calendarID)
	if err != nil {
		return nil, err
	}
	return cal.PTOEntries, nil
}

// PTOConfigFor returns a calendar's policy, or nil when PTO is not set up.
func (s *AppState) PTOConfigFor(calendarID string) (*pto.Config, error) {
	cal, err := s.Calendar(calendarID)
	if err != nil {
		return nil, err
	}
	return cal.PTO, nil
}

// SummaryFor projects a calendar's balance summary.
func (s *AppState) SummaryFor(calendarID string) (pto.Summary, error) {
	cal, err := s.Calendar(calendarID)
	if err != nil {
		return pto.Summary{}, err
	}
	cfg := pto.Config{}
	if cal.PTO != nil {
		cfg = *cal.PTO
	}
	return pto.Summarize(cfg, cal.PTOEntries), nil
}
