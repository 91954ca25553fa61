/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: the core keeps
  decimals and Date values, the wire carries plain numbers and ISO strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the core, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"

	"github.com/yearplan/planner-engine/planner"
	"github.com/yearplan/planner-engine/pto"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StateDTO is the full application state plus the current share token.
type StateDTO struct {
	StartDate       string        `json:"start_date"`
	IncludeWeekends bool          `json:"include_weekends"`
	ShowToday       bool          `json:"show_today"`
	Calendars       []CalendarDTO `json:"calendars"`
	Token           string        `json:"token"`
}

type CalendarDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     int        `json:"color"`
	ColorHex  string     `json:"color_hex,omitempty"`
	IsSpecial bool       `json:"is_special,omitempty"`
	Ranges    []RangeDTO `json:"ranges"`
	PTO       *PTODTO    `json:"pto,omitempty"`
	Entries   []EntryDTO `json:"pto_entries,omitempty"`
}

type RangeDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

type PTODTO struct {
	YearsOfService int     `json:"years_of_service"`
	RolloverHours  float64 `json:"rollover_hours"`
	Enabled        bool    `json:"enabled"`
}

type EntryDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	HoursPerDay int     `json:"hours_per_day"`
	TotalHours  float64 `json:"total_hours"`
}

type SummaryDTO struct {
	TotalHours     float64 `json:"total_hours"`
	UsedHours      float64 `json:"used_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	TotalDays      float64 `json:"total_days"`
	UsedDays       float64 `json:"used_days"`
	RemainingDays  float64 `json:"remaining_days"`
	AccrualRate    float64 `json:"accrual_rate"`
}

// ShareDTO is the shareable link material.
type ShareDTO struct {
	Token    string `json:"token"`
	Fragment string `json:"fragment"` // ready to append to any origin/path
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateCalendarRequest struct {
	Name string `json:"name"`
}

type RenameCalendarRequest struct {
	Name string `json:"name"`
}

type ToggleRequest struct {
	Date string `json:"date"`
}

type SetRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PTOConfigRequest struct {
	YearsOfService int     `json:"years_of_service"`
	RolloverHours  float64 `json:"rollover_hours"`
	Enabled        bool    `json:"enabled"`
}

type AddEntryRequest struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	HoursPerDay int    `json:"hours_per_day"`
	Name        string `json:"name"`
}

// LoadStateRequest carries one (or both) persisted-state sources; the
// handler implements the reconciliation policy.
type LoadStateRequest struct {
	Token      string          `json:"token,omitempty"`
	Structural json.RawMessage `json:"structural,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toCalendarDTO(cal *planner.Calendar) CalendarDTO {
	dto := CalendarDTO{
		ID:        cal.ID,
		Name:      cal.Name,
		Color:     cal.Color,
		IsSpecial: cal.IsSpecial,
		Ranges:    []RangeDTO{},
	}
	if cal.Color >= 0 && cal.Color < len(planner.Palette) {
		dto.ColorHex = planner.Palette[cal.Color].Hex
	}
	for _, r := range cal.VisibleRanges() {
		dto.Ranges = append(dto.Ranges, RangeDTO{
			Start:       r.Start.String(),
			End:         r.End.String(),
			Description: r.Description,
		})
	}
	if cal.PTO != nil {
		dto.PTO = &PTODTO{
			YearsOfService: cal.PTO.YearsOfService,
			RolloverHours:  cal.PTO.RolloverHours.InexactFloat64(),
			Enabled:        cal.PTO.Enabled,
		}
	}
	for _, e := range cal.PTOEntries {
		dto.Entries = append(dto.Entries, toEntryDTO(e))
	}
	return dto
}

func toEntryDTO(e pto.Entry) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		Name:        e.Name,
		Start:       e.Start.String(),
		End:         e.End.String(),
		HoursPerDay: e.HoursPerDay,
		TotalHours:  e.TotalHours.InexactFloat64(),
	}
}

func toSummaryDTO(s pto.Summary) SummaryDTO {
	return SummaryDTO{
		TotalHours:     s.TotalHours.InexactFloat64(),
		UsedHours:      s.UsedHours.InexactFloat64(),
		RemainingHours: s.RemainingHours.InexactFloat64(),
		TotalDays:      s.TotalDays.InexactFloat64(),
		UsedDays:       s.UsedDays.InexactFloat64(),
		RemainingDays:  s.RemainingDays.InexactFloat64(),
		AccrualRate:    s.AccrualRate.InexactFloat64(),
	}
}
