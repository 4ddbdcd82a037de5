package repository

import (
	"context"
	"errors"
	"time"

	"campus-ops/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Match types
const (
	MatchTypeAuto   = "auto"
	MatchTypeManual = "manual"
)

// EventMatch is an explicit link between a canonical event and a raw
// event, used for post-hoc manual linking and suggestion tracking.
type EventMatch struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	RawEventID uuid.UUID `json:"raw_event_id"`
	MatchType  string    `json:"match_type"`
	Confidence float64   `json:"confidence"`
	MatchedBy  *string   `json:"matched_by,omitempty"`
	MatchedAt  time.Time `json:"matched_at"`
}

// CreateEventMatchRequest holds parameters for creating a match link
type CreateEventMatchRequest struct {
	EventID    uuid.UUID
	RawEventID uuid.UUID
	MatchType  string
	Confidence float64
	MatchedBy  *string
}

// EventMatchRepository handles event match persistence
type EventMatchRepository struct {
	db db.DBTX
}

// NewEventMatchRepository creates a new event match repository
func NewEventMatchRepository(dbtx db.DBTX) *EventMatchRepository {
	return &EventMatchRepository{db: dbtx}
}

const eventMatchColumns = `id, event_id, raw_event_id, match_type, confidence, matched_by, matched_at`

func scanEventMatch(row pgx.Row) (*EventMatch, error) {
	var (
		m         EventMatch
		id        pgtype.UUID
		eventID   pgtype.UUID
		rawID     pgtype.UUID
		matchedBy pgtype.Text
		matchedAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &eventID, &rawID, &m.MatchType, &m.Confidence, &matchedBy, &matchedAt); err != nil {
		return nil, err
	}

	m.ID = pgToUUID(id)
	m.EventID = pgToUUID(eventID)
	m.RawEventID = pgToUUID(rawID)
	m.MatchedBy = ptrFromText(matchedBy)
	m.MatchedAt = matchedAt.Time

	return &m, nil
}

// Create inserts a new match link. A duplicate (event_id, raw_event_id)
// pair maps to db.ErrConflict.
func (r *EventMatchRepository) Create(ctx context.Context, req CreateEventMatchRequest) (*EventMatch, error) {
	query := `
		INSERT INTO event_matches (id, event_id, raw_event_id, match_type, confidence, matched_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventMatchColumns

	row := r.db.QueryRow(ctx, query,
		uuidToPg(uuid.New()), uuidToPg(req.EventID), uuidToPg(req.RawEventID),
		req.MatchType, req.Confidence, textFromPtr(req.MatchedBy),
	)

	m, err := scanEventMatch(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, db.ErrConflict
		}
		return nil, err
	}
	return m, nil
}

// Delete removes a match link
func (r *EventMatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_matches WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ListByEvent retrieves all match links for a canonical event
func (r *EventMatchRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]EventMatch, error) {
	query := `SELECT ` + eventMatchColumns + `
		FROM event_matches
		WHERE event_id = $1
		ORDER BY matched_at DESC`

	rows, err := r.db.Query(ctx, query, uuidToPg(eventID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []EventMatch
	for rows.Next() {
		m, err := scanEventMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// GetByRawEventID finds the link a raw event currently belongs to, if
// any. A raw event should not be linked to two canonical events; write
// paths use this to reject double links.
func (r *EventMatchRepository) GetByRawEventID(ctx context.Context, rawEventID uuid.UUID) (*EventMatch, error) {
	query := `SELECT ` + eventMatchColumns + `
		FROM event_matches
		WHERE raw_event_id = $1
		LIMIT 1`

	m, err := scanEventMatch(r.db.QueryRow(ctx, query, uuidToPg(rawEventID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
