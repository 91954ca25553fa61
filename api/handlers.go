/*
handlers.go - HTTP API handlers for the planner engine

PURPOSE:
  Exposes the year-planner core via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  State:
    GET    /api/state                     Full state + share token
    PUT    /api/state                     Replace state from token/structural

  Calendars:
    POST   /api/calendars                 Create calendar
    DELETE /api/calendars/{id}            Remove calendar
    PUT    /api/calendars/{id}/name       Rename calendar
    POST   /api/calendars/{id}/toggle     Toggle a single date
    POST   /api/calendars/{id}/range      Insert a date range

  PTO:
    POST   /api/calendars/{id}/pto/config          Set PTO configuration
    POST   /api/calendars/{id}/pto/entries         Add validated PTO entry
    DELETE /api/calendars/{id}/pto/entries/{eid}   Remove PTO entry
    GET    /api/calendars/{id}/pto/summary         Balance summary

  Queries:
    GET    /api/days/{date}               Calendars covering a date
    GET    /api/share                     Share token + URL fragment
    GET    /api/calendars/{id}/export/{format}   csv | json | ics

ARCHITECTURE:
  Handler struct holds the in-memory AppState guarded by a mutex, the
  snapshot store, and the holiday table. Every successful mutation is
  re-encoded and appended to the snapshot store; persistence failures
  are logged but never fail the request.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Calendar or entry not found
  - 409: Read-only calendar, calendar limit reached
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/yearplan/planner-engine/codec"
	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/export"
	"github.com/yearplan/planner-engine/holiday"
	"github.com/yearplan/planner-engine/planner"
	"github.com/yearplan/planner-engine/pto"
	"github.com/yearplan/planner-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu       sync.Mutex
	state    planner.AppState
	token    string
	Store    *sqlite.Store
	Holidays *holiday.Table
}

// NewHandler creates a new handler with the given store and holiday table.
func NewHandler(store *sqlite.Store, holidays *holiday.Table) *Handler {
	return &Handler{
		state:    planner.DefaultState(dates.Today().Year()),
		Store:    store,
		Holidays: holidays,
	}
}

// LoadState restores the most recent snapshot from the store. A missing
// snapshot leaves the default state in place.
func (h *Handler) LoadState(ctx context.Context) error {
	snap, err := h.Store.Latest(ctx)
	if errors.Is(err, sqlite.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = codec.DecodeStructural(snap.Structural)
	h.token = snap.Token
	return nil
}

// persist re-encodes the current state and appends a snapshot. Called with
// the mutex held, after every successful mutation.
func (h *Handler) persist(ctx context.Context) {
	token, err := codec.Encode(h.state)
	if err != nil {
		log.Printf("encode state: %v", err)
		return
	}
	h.token = token

	structural, err := codec.EncodeStructural(h.state)
	if err != nil {
		log.Printf("encode structural state: %v", err)
		return
	}
	if err := h.Store.Save(ctx, token, structural); err != nil {
		log.Printf("save snapshot: %v", err)
	}
}

// stateDTO builds the full response payload. Called with the mutex held.
func (h *Handler) stateDTO() StateDTO {
	dto := StateDTO{
		StartDate:       h.state.StartDate.String(),
		IncludeWeekends: h.state.IncludeWeekends,
		ShowToday:       h.state.ShowToday,
		Calendars:       []CalendarDTO{},
		Token:           h.token,
	}
	for i := range h.state.Calendars {
		dto.Calendars = append(dto.Calendars, toCalendarDTO(&h.state.Calendars[i]))
	}
	return dto
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the full application state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.stateDTO())
}

// PutState replaces the state from a share token or a structural blob.
// When both are present the token wins.
func (h *Handler) PutState(w http.ResponseWriter, r *http.Request) {
	var req LoadStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case req.Token != "":
		h.state = codec.Decode(req.Token)
	case len(req.Structural) > 0:
		h.state = codec.DecodeStructural(req.Structural)
	default:
		h.state = planner.DefaultState(dates.Today().Year())
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusOK, h.stateDTO())
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// CreateCalendar adds a new calendar with the next free color.
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cal, err := h.state.AddCalendar(req.Name)
	if err != nil {
		writeDomainError(w, "Failed to create calendar", err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toCalendarDTO(cal))
}

// DeleteCalendar removes a calendar by ID.
func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.RemoveCalendar(id); err != nil {
		writeDomainError(w, "Failed to delete calendar", err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusOK, h.stateDTO())
}

// RenameCalendar changes a calendar's display name.
func (h *Handler) RenameCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RenameCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.RenameCalendar(id, req.Name); err != nil {
		writeDomainError(w, "Failed to rename calendar", err)
		return
	}
	h.persist(r.Context())
	cal, _ := h.state.Calendar(id)
	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// ToggleDate flips a single date's membership in a calendar.
func (h *Handler) ToggleDate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := dates.Parse(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.ToggleDate(id, day); err != nil {
		writeDomainError(w, "Failed to toggle date", err)
		return
	}
	h.persist(r.Context())
	cal, _ := h.state.Calendar(id)
	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// SetRange inserts a date range into a calendar.
func (h *Handler) SetRange(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := dates.Parse(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := dates.Parse(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.SetRange(id, start, end); err != nil {
		writeDomainError(w, "Failed to set range", err)
		return
	}
	h.persist(r.Context())
	cal, _ := h.state.Calendar(id)
	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// =============================================================================
// PTO HANDLERS
// =============================================================================

// SetPTOConfig sets or replaces a calendar's PTO configuration.
func (h *Handler) SetPTOConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PTOConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.YearsOfService < 0 {
		writeError(w, http.StatusBadRequest, "years_of_service must not be negative", nil)
		return
	}

	cfg := pto.Config{
		YearsOfService: req.YearsOfService,
		RolloverHours:  decimal.NewFromFloat(req.RolloverHours),
		Enabled:        req.Enabled,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.SetPTOConfig(id, cfg); err != nil {
		writeDomainError(w, "Failed to set PTO config", err)
		return
	}
	h.persist(r.Context())
	cal, _ := h.state.Calendar(id)
	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// AddPTOEntry validates and records a PTO entry.
func (h *Handler) AddPTOEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := dates.Parse(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := dates.Parse(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}

	entry := pto.NewEntry("", start, end, req.HoursPerDay, req.Name)

	h.mu.Lock()
	defer h.mu.Unlock()

	added, err := h.state.AddPTOEntry(id, entry, h.Holidays)
	if err != nil {
		writeDomainError(w, "Failed to add PTO entry", err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toEntryDTO(added))
}

// RemovePTOEntry deletes a PTO entry by ID.
func (h *Handler) RemovePTOEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entryID := chi.URLParam(r, "entryID")

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.RemovePTOEntry(id, entryID); err != nil {
		writeDomainError(w, "Failed to remove PTO entry", err)
		return
	}
	h.persist(r.Context())
	cal, _ := h.state.Calendar(id)
	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// GetPTOSummary returns the balance summary for a calendar.
func (h *Handler) GetPTOSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	summary, err := h.state.SummaryFor(id)
	if err != nil {
		writeDomainError(w, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// =============================================================================
// QUERY HANDLERS
// =============================================================================

// GetDay returns the calendars whose visible ranges cover a date.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	day, err := dates.Parse(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dtos := []CalendarDTO{}
	for _, cal := range h.state.RangesCoveringDate(day) {
		dtos = append(dtos, toCalendarDTO(cal))
	}

	// The holiday calendar is derived, not stored, so it is checked here.
	if h.Holidays != nil {
		holidays := planner.HolidayCalendar(h.Holidays, day.Year())
		if planner.FindRangeContaining(day, holidays.Ranges) != nil {
			dtos = append(dtos, toCalendarDTO(&holidays))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetShare returns the current share token and a URL fragment.
func (h *Handler) GetShare(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	token := h.token
	if token == "" {
		encoded, err := codec.Encode(h.state)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to encode state", err)
			return
		}
		token = encoded
		h.token = token
	}
	writeJSON(w, http.StatusOK, ShareDTO{
		Token:    token,
		Fragment: "#" + token,
	})
}

// ExportCalendar streams a calendar's PTO entries as csv, json, or ics.
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")

	h.mu.Lock()
	defer h.mu.Unlock()

	cal, err := h.state.Calendar(id)
	if err != nil {
		writeDomainError(w, "Failed to export calendar", err)
		return
	}
	entries, _ := h.state.PTOEntriesFor(id)
	summary := pto.Summary{}
	if cfg, _ := h.state.PTOConfigFor(id); cfg != nil {
		summary, _ = h.state.SummaryFor(id)
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="pto.csv"`)
		err = export.EntriesCSV(w, cal.Name, entries, summary)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		err = export.EntriesJSON(w, cal.Name, entries, summary)
	case "ics":
		w.Header().Set("Content-Type", "text/calendar")
		w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
		err = export.CalendarICS(w, cal)
	default:
		writeError(w, http.StatusBadRequest, "Unknown export format (use csv, json, or ics)", nil)
		return
	}
	if err != nil {
		log.Printf("export %s as %s: %v", id, format, err)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps core errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	kind := ""

	switch {
	case errors.Is(err, planner.ErrCalendarNotFound):
		status, kind = http.StatusNotFound, "calendar_not_found"
	case errors.Is(err, planner.ErrEntryNotFound):
		status, kind = http.StatusNotFound, "entry_not_found"
	case errors.Is(err, planner.ErrReadOnlyCalendar):
		status, kind = http.StatusConflict, "read_only_calendar"
	case errors.Is(err, planner.ErrCalendarLimit):
		status, kind = http.StatusConflict, "calendar_limit"
	case errors.Is(err, pto.ErrPTONotEnabled):
		status, kind = http.StatusBadRequest, "pto_not_enabled"
	case errors.Is(err, pto.ErrHolidayBlocked):
		status, kind = http.StatusBadRequest, "holiday_blocked"
	case errors.Is(err, pto.ErrInvalidHourGranularity):
		status, kind = http.StatusBadRequest, "invalid_hour_granularity"
	case errors.Is(err, pto.ErrInsufficientBalance):
		status, kind = http.StatusBadRequest, "insufficient_balance"
	}

	resp := ErrorResponse{Error: message, Kind: kind}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
