package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus-ops/internal/db"
	"campus-ops/internal/source"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// RawEvent is one source system's record of an event occurrence,
// pre-deduplication. (source, source_id) is unique; re-syncs overwrite
// in place. The aggregation core treats raw events as read-only.
type RawEvent struct {
	ID                    uuid.UUID       `json:"id"`
	Source                source.Source   `json:"source"`
	SourceID              string          `json:"source_id"`
	Title                 string          `json:"title"`
	Description           *string         `json:"description,omitempty"`
	StartDate             time.Time       `json:"start_date"`
	EndDate               *time.Time      `json:"end_date,omitempty"`
	StartTime             *string         `json:"start_time,omitempty"`
	EndTime               *string         `json:"end_time,omitempty"`
	Location              *string         `json:"location,omitempty"`
	Resource              *string         `json:"resource,omitempty"`
	ResourceID            *int32          `json:"resource_id,omitempty"`
	ContactPerson         *string         `json:"contact_person,omitempty"`
	ExternalReservationID *string         `json:"external_reservation_id,omitempty"`
	RecurringPattern      *string         `json:"recurring_pattern,omitempty"`
	Payload               json.RawMessage `json:"payload,omitempty"`
	SyncedAt              time.Time       `json:"synced_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// UpsertRawEventRequest holds parameters for upserting a raw event
type UpsertRawEventRequest struct {
	Source                source.Source
	SourceID              string
	Title                 string
	Description           *string
	StartDate             time.Time
	EndDate               *time.Time
	StartTime             *string
	EndTime               *string
	Location              *string
	Resource              *string
	ResourceID            *int32
	ContactPerson         *string
	ExternalReservationID *string
	RecurringPattern      *string
	Payload               json.RawMessage
	SyncedAt              time.Time
}

// RawEventRepository handles raw event persistence
type RawEventRepository struct {
	db db.DBTX
}

// NewRawEventRepository creates a new raw event repository
func NewRawEventRepository(dbtx db.DBTX) *RawEventRepository {
	return &RawEventRepository{db: dbtx}
}

const rawEventColumns = `id, source, source_id, title, description, start_date, end_date,
	start_time, end_time, location, resource, resource_id, contact_person,
	external_reservation_id, recurring_pattern, payload, synced_at, created_at, updated_at`

func scanRawEvent(row pgx.Row) (*RawEvent, error) {
	var (
		ev                                                   RawEvent
		id                                                   pgtype.UUID
		src                                                  string
		description, startTime, endTime, location, resource  pgtype.Text
		contactPerson, externalReservationID, recurringPat   pgtype.Text
		startDate, endDate                                   pgtype.Date
		resourceID                                           pgtype.Int4
		syncedAt, createdAt, updatedAt                       pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &src, &ev.SourceID, &ev.Title, &description, &startDate, &endDate,
		&startTime, &endTime, &location, &resource, &resourceID, &contactPerson,
		&externalReservationID, &recurringPat, &ev.Payload, &syncedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.ID = pgToUUID(id)
	ev.Source = source.Source(src)
	ev.Description = ptrFromText(description)
	ev.StartDate = startDate.Time
	ev.EndDate = ptrFromDate(endDate)
	ev.StartTime = ptrFromText(startTime)
	ev.EndTime = ptrFromText(endTime)
	ev.Location = ptrFromText(location)
	ev.Resource = ptrFromText(resource)
	ev.ResourceID = ptrFromInt4(resourceID)
	ev.ContactPerson = ptrFromText(contactPerson)
	ev.ExternalReservationID = ptrFromText(externalReservationID)
	ev.RecurringPattern = ptrFromText(recurringPat)
	ev.SyncedAt = syncedAt.Time
	ev.CreatedAt = createdAt.Time
	ev.UpdatedAt = updatedAt.Time

	return &ev, nil
}

// Upsert inserts or updates a raw event keyed on (source, source_id)
func (r *RawEventRepository) Upsert(ctx context.Context, req UpsertRawEventRequest) (*RawEvent, error) {
	query := `
		INSERT INTO raw_events (
			id, source, source_id, title, description, start_date, end_date,
			start_time, end_time, location, resource, resource_id, contact_person,
			external_reservation_id, recurring_pattern, payload, synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (source, source_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			location = EXCLUDED.location,
			resource = EXCLUDED.resource,
			resource_id = EXCLUDED.resource_id,
			contact_person = EXCLUDED.contact_person,
			external_reservation_id = EXCLUDED.external_reservation_id,
			recurring_pattern = EXCLUDED.recurring_pattern,
			payload = EXCLUDED.payload,
			synced_at = EXCLUDED.synced_at,
			updated_at = NOW()
		RETURNING ` + rawEventColumns

	payload := req.Payload
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}

	row := r.db.QueryRow(ctx, query,
		uuidToPg(uuid.New()), string(req.Source), req.SourceID, req.Title,
		textFromPtr(req.Description), dateFromTime(req.StartDate), dateFromPtr(req.EndDate),
		textFromPtr(req.StartTime), textFromPtr(req.EndTime), textFromPtr(req.Location),
		textFromPtr(req.Resource), int4FromPtr(req.ResourceID), textFromPtr(req.ContactPerson),
		textFromPtr(req.ExternalReservationID), textFromPtr(req.RecurringPattern),
		payload, pgtype.Timestamptz{Time: req.SyncedAt, Valid: true},
	)

	ev, err := scanRawEvent(row)
	if err != nil {
		return nil, fmt.Errorf("upsert raw event: %w", err)
	}
	return ev, nil
}

// GetByID retrieves a raw event by its UUID
func (r *RawEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*RawEvent, error) {
	query := `SELECT ` + rawEventColumns + ` FROM raw_events WHERE id = $1`

	ev, err := scanRawEvent(r.db.QueryRow(ctx, query, uuidToPg(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// ListFromDate retrieves raw events with start_date on or after the given date,
// in stable (start_date, synced order) input order.
func (r *RawEventRepository) ListFromDate(ctx context.Context, from time.Time) ([]RawEvent, error) {
	query := `SELECT ` + rawEventColumns + `
		FROM raw_events
		WHERE start_date >= $1
		ORDER BY start_date, created_at, id`

	return r.queryMany(ctx, query, dateFromTime(from))
}

// ListByDate retrieves raw events for one calendar date
func (r *RawEventRepository) ListByDate(ctx context.Context, date time.Time) ([]RawEvent, error) {
	query := `SELECT ` + rawEventColumns + `
		FROM raw_events
		WHERE start_date = $1
		ORDER BY created_at, id`

	return r.queryMany(ctx, query, dateFromTime(date))
}

// ListBySource retrieves raw events for one source from a date forward
func (r *RawEventRepository) ListBySource(ctx context.Context, src source.Source, from time.Time) ([]RawEvent, error) {
	query := `SELECT ` + rawEventColumns + `
		FROM raw_events
		WHERE source = $1 AND start_date >= $2
		ORDER BY start_date, created_at, id`

	return r.queryMany(ctx, query, string(src), dateFromTime(from))
}

func (r *RawEventRepository) queryMany(ctx context.Context, query string, args ...any) ([]RawEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []RawEvent
	for rows.Next() {
		ev, err := scanRawEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}
