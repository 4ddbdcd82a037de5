package repository

import (
	"encoding/json"

	"campus-ops/internal/source"
)

// Raw payloads are stored as opaque jsonb for forward compatibility.
// The types below model the per-source fields we actually consume; any
// fields not listed ride along untouched in RawEvent.Payload.

// GroupReservationPayload is the shape of reservation-system group exports.
type GroupReservationPayload struct {
	GroupName     string `json:"group_name,omitempty"`
	EventType     string `json:"event_type,omitempty"`
	AttendeeCount int    `json:"attendee_count,omitempty"`
	SetupNotes    string `json:"setup_notes,omitempty"`
}

// ResourceReservationPayload is the shape of reservation-system room exports.
type ResourceReservationPayload struct {
	RoomID      int    `json:"room_id,omitempty"`
	BookingType string `json:"booking_type,omitempty"`
	BookedBy    string `json:"booked_by,omitempty"`
}

// CalendarPayload is the shape of Google Calendar sync records.
type CalendarPayload struct {
	CalendarID string `json:"calendar_id,omitempty"`
	Organizer  string `json:"organizer,omitempty"`
	Category   string `json:"category,omitempty"`
	HTMLLink   string `json:"html_link,omitempty"`
}

// ManualPayload is the shape of self-service manual entries.
type ManualPayload struct {
	EnteredBy string `json:"entered_by,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// TypeHint extracts the source-specific event type hint from a raw
// payload, or "" when the source carries none. Decode failures are
// treated as an absent hint, never an error.
func TypeHint(src source.Source, payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}

	switch src {
	case source.BigQueryGroup:
		var p GroupReservationPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			return p.EventType
		}
	case source.BigQueryResource:
		var p ResourceReservationPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			return p.BookingType
		}
	case source.CalendarStaff, source.CalendarLS, source.CalendarMS:
		var p CalendarPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			return p.Category
		}
	}
	return ""
}
