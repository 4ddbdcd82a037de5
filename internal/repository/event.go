package repository

import (
	"context"
	"errors"
	"time"

	"campus-ops/internal/db"
	"campus-ops/internal/source"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// TeamNeeds captures which operational teams an event requires.
// These flags are operator-owned: the aggregator sets defaults on first
// insert and never touches them again.
type TeamNeeds struct {
	Setup     bool `json:"setup"`
	AV        bool `json:"av"`
	Custodial bool `json:"custodial"`
	Security  bool `json:"security"`
	Kitchen   bool `json:"kitchen"`
}

// Event is the deduplicated, user-facing canonical event. SourceKey is
// the sorted, comma-joined set of contributing raw event ids and is the
// durable identity used for idempotent upserts.
type Event struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	EventType      string          `json:"event_type"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	StartTime      *string         `json:"start_time,omitempty"`
	EndTime        *string         `json:"end_time,omitempty"`
	AllDay         bool            `json:"all_day"`
	Location       *string         `json:"location,omitempty"`
	ResourceID     *int32          `json:"resource_id,omitempty"`
	Teams          TeamNeeds       `json:"teams"`
	TeamNotes      *string         `json:"team_notes,omitempty"`
	Hidden         bool            `json:"hidden"`
	HasConflict    bool            `json:"has_conflict"`
	ConflictOk     bool            `json:"conflict_ok"`
	ConflictNote   *string         `json:"conflict_note,omitempty"`
	SourceKey      string          `json:"source_key"`
	SourceEventIDs []uuid.UUID     `json:"source_event_ids"`
	PrimarySource  source.Source   `json:"primary_source"`
	Sources        []source.Source `json:"sources"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InsertEventRequest holds the aggregator-synthesized fields for a new
// canonical event.
type InsertEventRequest struct {
	Title          string
	Description    *string
	EventType      string
	StartDate      time.Time
	EndDate        *time.Time
	StartTime      *string
	EndTime        *string
	AllDay         bool
	Location       *string
	ResourceID     *int32
	Teams          TeamNeeds
	SourceKey      string
	SourceEventIDs []uuid.UUID
	PrimarySource  source.Source
	Sources        []source.Source
}

// UpdateAggregatedRequest holds the fields the aggregator owns on rerun.
// Operator-owned fields (team flags, notes, hidden, conflict_ok) are
// deliberately absent.
type UpdateAggregatedRequest struct {
	Title          string
	Description    *string
	EventType      string
	StartDate      time.Time
	EndDate        *time.Time
	StartTime      *string
	EndTime        *string
	AllDay         bool
	Location       *string
	ResourceID     *int32
	SourceEventIDs []uuid.UUID
	PrimarySource  source.Source
	Sources        []source.Source
}

// UpdateOperationsRequest patches operator-owned fields. Nil pointers
// leave the column untouched.
type UpdateOperationsRequest struct {
	Setup        *bool
	AV           *bool
	Custodial    *bool
	Security     *bool
	Kitchen      *bool
	TeamNotes    *string
	Hidden       *bool
	ConflictOk   *bool
	ConflictNote *string
}

// EventRepository handles canonical event persistence
type EventRepository struct {
	db db.DBTX
}

// NewEventRepository creates a new event repository
func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx}
}

const eventColumns = `id, title, description, event_type, start_date, end_date, start_time,
	end_time, all_day, location, resource_id, needs_setup, needs_av, needs_custodial,
	needs_security, needs_kitchen, team_notes, hidden, has_conflict, conflict_ok,
	conflict_note, source_key, source_event_ids, primary_source, sources, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var (
		ev                           Event
		id                           pgtype.UUID
		description, startTime       pgtype.Text
		endTime, location, teamNotes pgtype.Text
		conflictNote                 pgtype.Text
		startDate, endDate           pgtype.Date
		resourceID                   pgtype.Int4
		sourceEventIDs               []pgtype.UUID
		primarySource                string
		sources                      []string
		createdAt, updatedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &ev.Title, &description, &ev.EventType, &startDate, &endDate, &startTime,
		&endTime, &ev.AllDay, &location, &resourceID, &ev.Teams.Setup, &ev.Teams.AV,
		&ev.Teams.Custodial, &ev.Teams.Security, &ev.Teams.Kitchen, &teamNotes,
		&ev.Hidden, &ev.HasConflict, &ev.ConflictOk, &conflictNote, &ev.SourceKey,
		&sourceEventIDs, &primarySource, &sources, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.ID = pgToUUID(id)
	ev.Description = ptrFromText(description)
	ev.StartDate = startDate.Time
	ev.EndDate = ptrFromDate(endDate)
	ev.StartTime = ptrFromText(startTime)
	ev.EndTime = ptrFromText(endTime)
	ev.Location = ptrFromText(location)
	ev.ResourceID = ptrFromInt4(resourceID)
	ev.TeamNotes = ptrFromText(teamNotes)
	ev.ConflictNote = ptrFromText(conflictNote)
	ev.PrimarySource = source.Source(primarySource)
	ev.CreatedAt = createdAt.Time
	ev.UpdatedAt = updatedAt.Time

	ev.SourceEventIDs = make([]uuid.UUID, 0, len(sourceEventIDs))
	for _, u := range sourceEventIDs {
		if u.Valid {
			ev.SourceEventIDs = append(ev.SourceEventIDs, uuid.UUID(u.Bytes))
		}
	}
	ev.Sources = make([]source.Source, 0, len(sources))
	for _, s := range sources {
		ev.Sources = append(ev.Sources, source.Source(s))
	}

	return &ev, nil
}

func uuidsToPg(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		out[i] = uuidToPg(id)
	}
	return out
}

func sourcesToStrings(srcs []source.Source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = string(s)
	}
	return out
}

// Insert creates a new canonical event
func (r *EventRepository) Insert(ctx context.Context, req InsertEventRequest) (*Event, error) {
	query := `
		INSERT INTO events (
			id, title, description, event_type, start_date, end_date, start_time,
			end_time, all_day, location, resource_id, needs_setup, needs_av,
			needs_custodial, needs_security, needs_kitchen, source_key,
			source_event_ids, primary_source, sources
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		uuidToPg(uuid.New()), req.Title, textFromPtr(req.Description), req.EventType,
		dateFromTime(req.StartDate), dateFromPtr(req.EndDate), textFromPtr(req.StartTime),
		textFromPtr(req.EndTime), req.AllDay, textFromPtr(req.Location), int4FromPtr(req.ResourceID),
		req.Teams.Setup, req.Teams.AV, req.Teams.Custodial, req.Teams.Security, req.Teams.Kitchen,
		req.SourceKey, uuidsToPg(req.SourceEventIDs), string(req.PrimarySource),
		sourcesToStrings(req.Sources),
	)

	return scanEvent(row)
}

// UpdateAggregated overwrites only the aggregator-owned fields of an
// existing canonical event, preserving operator edits.
func (r *EventRepository) UpdateAggregated(ctx context.Context, id uuid.UUID, req UpdateAggregatedRequest) (*Event, error) {
	query := `
		UPDATE events SET
			title = $2,
			description = $3,
			event_type = $4,
			start_date = $5,
			end_date = $6,
			start_time = $7,
			end_time = $8,
			all_day = $9,
			location = $10,
			resource_id = $11,
			source_event_ids = $12,
			primary_source = $13,
			sources = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		uuidToPg(id), req.Title, textFromPtr(req.Description), req.EventType,
		dateFromTime(req.StartDate), dateFromPtr(req.EndDate), textFromPtr(req.StartTime),
		textFromPtr(req.EndTime), req.AllDay, textFromPtr(req.Location), int4FromPtr(req.ResourceID),
		uuidsToPg(req.SourceEventIDs), string(req.PrimarySource), sourcesToStrings(req.Sources),
	)

	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// GetByID retrieves a canonical event by id
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	ev, err := scanEvent(r.db.QueryRow(ctx, query, uuidToPg(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// GetBySourceKey finds the canonical event carrying the given source key
// within the future date range. This is the aggregator's upsert lookup.
func (r *EventRepository) GetBySourceKey(ctx context.Context, key string, from time.Time) (*Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE source_key = $1 AND start_date >= $2`

	ev, err := scanEvent(r.db.QueryRow(ctx, query, key, dateFromTime(from)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// ListFromDate retrieves canonical events from a date forward
func (r *EventRepository) ListFromDate(ctx context.Context, from time.Time, includeHidden bool) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE start_date >= $1 AND (hidden = FALSE OR $2)
		ORDER BY start_date, start_time NULLS FIRST, id`

	return r.queryMany(ctx, query, dateFromTime(from), includeHidden)
}

// ListByResourceDate retrieves non-hidden events for one resource on one date
func (r *EventRepository) ListByResourceDate(ctx context.Context, resourceID int32, date time.Time) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE resource_id = $1 AND start_date = $2 AND hidden = FALSE
		ORDER BY start_time NULLS FIRST, id`

	return r.queryMany(ctx, query, resourceID, dateFromTime(date))
}

// UpdateOperations patches operator-owned fields only
func (r *EventRepository) UpdateOperations(ctx context.Context, id uuid.UUID, req UpdateOperationsRequest) (*Event, error) {
	query := `
		UPDATE events SET
			needs_setup = COALESCE($2, needs_setup),
			needs_av = COALESCE($3, needs_av),
			needs_custodial = COALESCE($4, needs_custodial),
			needs_security = COALESCE($5, needs_security),
			needs_kitchen = COALESCE($6, needs_kitchen),
			team_notes = COALESCE($7, team_notes),
			hidden = COALESCE($8, hidden),
			conflict_ok = COALESCE($9, conflict_ok),
			conflict_note = COALESCE($10, conflict_note),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, query,
		uuidToPg(id), req.Setup, req.AV, req.Custodial, req.Security, req.Kitchen,
		textFromPtr(req.TeamNotes), req.Hidden, req.ConflictOk, textFromPtr(req.ConflictNote),
	)

	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// FlagConflict marks an event as conflicting. Flagging is monotonic:
// has_conflict is only ever set here, never cleared, and conflict_ok is
// left for operators.
func (r *EventRepository) FlagConflict(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE events SET
			has_conflict = TRUE,
			conflict_note = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, uuidToPg(id), note)
	return err
}

func (r *EventRepository) queryMany(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}
