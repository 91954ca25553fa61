/*
Package codec maps the whole application state to a URL-safe token.

PURPOSE:
  Every edit re-derives a shareable link; on load, the token (or a
  persisted structural blob) is the entry point that reconstructs the
  calendars. The mapping is best-effort bijective: semantic fields (dates,
  hours, flags, PTO config) round-trip exactly; names and colors may be
  remapped by the defaulting and dedup rules below.

STRUCTURAL FORM:
  A compact JSON shape with one-letter keys and aggressive omission:
  - display flags omitted when equal to their defaults (both true)
  - calendar name omitted when it is the default placeholder
  - color stored as an optional palette index
  - every date stored as a signed day offset from the January 1 anchor

TOKEN PIPELINE:
  structural JSON -> raw DEFLATE -> base64url (no padding)

DECODE STRATEGIES:
  Decoding tries an ordered list of strategies until one yields valid
  structural JSON:
    1. current:  base64url + DEFLATE
    2. legacy:   plain std-base64 of the structural JSON (older links)
  When every strategy fails the codec degrades to the default state and
  logs the failure. Codec failures are never surfaced to the caller: there
  is no recovery action a user could take on a corrupt link, and the data
  is cheap to regenerate.

COLOR REASSIGNMENT:
  A stored color index is honored only if it is present, within the
  palette, and not already claimed by an earlier calendar in the list.
  Otherwise the first unclaimed slot is assigned, with a modulo pick once
  the palette is exhausted. First come, first served; two calendars can
  never decode to the same color while slots remain.

SEE ALSO:
  - planner: the AppState being encoded
  - store/sqlite: persists the structural blob between sessions
*/
package codec

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yearplan/planner-engine/dates"
	"github.com/yearplan/planner-engine/planner"
	"github.com/yearplan/planner-engine/pto"
)

// =============================================================================
// STRUCTURAL FORM
// =============================================================================

type structuralState struct {
	Start           string               `json:"s"`
	IncludeWeekends *bool                `json:"w,omitempty"` // nil means true
	ShowToday       *bool                `json:"t,omitempty"` // nil means true
	Calendars       []structuralCalendar `json:"c"`
}

type structuralCalendar struct {
	Name    string            `json:"n,omitempty"` // omitted when default placeholder
	Color   *int              `json:"k,omitempty"` // palette index; nil when unmatched
	Ranges  [][2]int          `json:"r,omitempty"` // [startOffset, endOffset] pairs
	PTO     *structuralPTO    `json:"p,omitempty"`
	Entries []structuralEntry `json:"e,omitempty"`
}

type structuralPTO struct {
	Years    int             `json:"y"`
	Rollover decimal.Decimal `json:"ro"`
	Enabled  bool            `json:"on"`
}

type structuralEntry struct {
	Start int    `json:"s"` // day offset from anchor
	End   int    `json:"e"`
	Hours int    `json:"h"`
	Name  string `json:"n,omitempty"`
}

// =============================================================================
// ENCODE
// =============================================================================

// Encode packs the state into a URL-safe token.
func Encode(state planner.AppState) (string, error) {
	blob, err := EncodeStructural(state)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("codec: init compressor: %w", err)
	}
	if _, err := w.Write(blob); err != nil {
		return "", fmt.Errorf("codec: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("codec: compress: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeStructural projects the state into its structural JSON form.
// Special (derived) calendars are skipped: they are rebuilt, not stored.
func EncodeStructural(state planner.AppState) ([]byte, error) {
	anchor := state.StartDate.StartOfYear()

	s := structuralState{Start: anchor.String()}
	if !state.IncludeWeekends {
		s.IncludeWeekends = boolPtr(false)
	}
	if !state.ShowToday {
		s.ShowToday = boolPtr(false)
	}

	for i := range state.Calendars {
		cal := &state.Calendars[i]
		if cal.IsSpecial {
			continue
		}
		sc := structuralCalendar{}
		if cal.Name != planner.DefaultCalendarName {
			sc.Name = cal.Name
		}
		if cal.Color >= 0 && cal.Color < len(planner.Palette) {
			color := cal.Color
			sc.Color = &color
		}
		for _, r := range cal.Ranges {
			sc.Ranges = append(sc.Ranges, [2]int{
				dates.DaysBetween(anchor, r.Start),
				dates.DaysBetween(anchor, r.End),
			})
		}
		if cal.PTO != nil {
			sc.PTO = &structuralPTO{
				Years:    cal.PTO.YearsOfService,
				Rollover: cal.PTO.RolloverHours,
				Enabled:  cal.PTO.Enabled,
			}
		}
		for _, e := range cal.PTOEntries {
			sc.Entries = append(sc.Entries, structuralEntry{
				Start: dates.DaysBetween(anchor, e.Start),
				End:   dates.DaysBetween(anchor, e.End),
				Hours: e.HoursPerDay,
				Name:  e.Name,
			})
		}
		s.Calendars = append(s.Calendars, sc)
	}

	return json.Marshal(s)
}

// =============================================================================
// DECODE
// =============================================================================

// decoder is one strategy for turning a token into structural form.
type decoder struct {
	name   string
	decode func(token string) (structuralState, error)
}

// decoders are tried in order; the first structural success wins. The
// legacy entry can be deleted independently once old links have died out.
var decoders = []decoder{
	{name: "deflate", decode: decodeDeflate},
	{name: "legacy-base64", decode: decodeLegacyBase64},
}

// Decode reconstructs the state from a token. It never fails: a missing
// or corrupt token degrades to the default state for the current year.
func Decode(token string) planner.AppState {
	if token == "" {
		return planner.DefaultState(time.Now().Year())
	}

	for _, d := range decoders {
		s, err := d.decode(token)
		if err == nil {
			return rebuild(s)
		}
		log.Printf("codec: %s decode failed: %v", d.name, err)
	}

	log.Printf("codec: all decoders failed, using default state")
	return planner.DefaultState(time.Now().Year())
}

// DecodeStructural reconstructs the state from a persisted structural
// blob. Same degradation policy as Decode.
func DecodeStructural(blob []byte) planner.AppState {
	var s structuralState
	if err := json.Unmarshal(blob, &s); err != nil {
		log.Printf("codec: structural decode failed: %v", err)
		return planner.DefaultState(time.Now().Year())
	}
	return rebuild(s)
}

func decodeDeflate(token string) (structuralState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return structuralState{}, fmt.Errorf("base64url: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	blob, err := io.ReadAll(r)
	if err != nil {
		return structuralState{}, fmt.Errorf("inflate: %w", err)
	}
	var s structuralState
	if err := json.Unmarshal(blob, &s); err != nil {
		return structuralState{}, fmt.Errorf("json: %w", err)
	}
	return s, nil
}

func decodeLegacyBase64(token string) (structuralState, error) {
	blob, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return structuralState{}, fmt.Errorf("base64: %w", err)
	}
	var s structuralState
	if err := json.Unmarshal(blob, &s); err != nil {
		return structuralState{}, fmt.Errorf("json: %w", err)
	}
	return s, nil
}

// =============================================================================
// REBUILD - structural form back into state
// =============================================================================

func rebuild(s structuralState) planner.AppState {
	anchor := anchorFrom(s.Start)

	state := planner.AppState{
		StartDate:       anchor,
		IncludeWeekends: s.IncludeWeekends == nil || *s.IncludeWeekends,
		ShowToday:       s.ShowToday == nil || *s.ShowToday,
	}

	claimed := make(map[int]bool)
	for i, sc := range s.Calendars {
		name := sc.Name
		if name == "" {
			name = planner.DefaultCalendarName
		}
		cal := planner.NewCalendar(name, assignColor(sc.Color, i, claimed))
		for _, pair := range sc.Ranges {
			start := anchor.AddDays(pair[0])
			end := anchor.AddDays(pair[1])
			if end.Before(start) {
				start, end = end, start
			}
			cal.Ranges = append(cal.Ranges, planner.DateRange{Start: start, End: end})
		}
		if sc.PTO != nil {
			cal.PTO = &pto.Config{
				YearsOfService: sc.PTO.Years,
				RolloverHours:  sc.PTO.Rollover,
				Enabled:        sc.PTO.Enabled,
			}
		}
		for _, se := range sc.Entries {
			entry := pto.NewEntry(pto.NewEntryID(),
				anchor.AddDays(se.Start), anchor.AddDays(se.End), se.Hours, se.Name)
			cal.PTOEntries = append(cal.PTOEntries, entry)
		}
		state.Calendars = append(state.Calendars, cal)
	}

	// A decoded state with no calendars would leave the UI empty.
	if len(state.Calendars) == 0 {
		state.Calendars = append(state.Calendars, planner.NewCalendar(planner.DefaultCalendarName, 0))
	}

	return state
}

// anchorFrom parses the stored anchor and forces it to January 1 of its
// year; the planner only supports whole-year views.
func anchorFrom(iso string) dates.Date {
	d, err := dates.Parse(iso)
	if err != nil {
		log.Printf("codec: bad anchor %q, defaulting to current year: %v", iso, err)
		return dates.Today().StartOfYear()
	}
	return d.StartOfYear()
}

// assignColor applies the first-come dedup rule and records the claim.
func assignColor(stored *int, position int, claimed map[int]bool) int {
	if stored != nil && *stored >= 0 && *stored < len(planner.Palette) && !claimed[*stored] {
		claimed[*stored] = true
		return *stored
	}
	for slot := range planner.Palette {
		if !claimed[slot] {
			claimed[slot] = true
			return slot
		}
	}
	return position % len(planner.Palette)
}

func boolPtr(b bool) *bool { return &b }
