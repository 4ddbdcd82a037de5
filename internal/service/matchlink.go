package service

import (
	"context"
	"errors"
	"fmt"

	"campus-ops/internal/db"
	"campus-ops/internal/repository"

	"github.com/google/uuid"
)

// ErrRawEventLinked is returned when a raw event is already linked to a
// different canonical event. A raw event contributes to at most one.
var ErrRawEventLinked = errors.New("raw event is already linked to another event")

type matchLinkStore interface {
	Create(ctx context.Context, req repository.CreateEventMatchRequest) (*repository.EventMatch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByRawEventID(ctx context.Context, rawEventID uuid.UUID) (*repository.EventMatch, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]repository.EventMatch, error)
}

type matchEventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Event, error)
}

type matchRawGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.RawEvent, error)
}

// MatchService manages manual links between canonical and raw events.
type MatchService struct {
	matches   matchLinkStore
	events    matchEventGetter
	rawEvents matchRawGetter
}

// NewMatchService creates a new match service
func NewMatchService(matches matchLinkStore, events matchEventGetter, rawEvents matchRawGetter) *MatchService {
	return &MatchService{matches: matches, events: events, rawEvents: rawEvents}
}

// Link creates a manual match between a canonical event and a raw
// event. The link confidence is computed with the matcher so manual and
// automatic links stay comparable.
func (s *MatchService) Link(ctx context.Context, eventID, rawEventID uuid.UUID, matchedBy *string) (*repository.EventMatch, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	raw, err := s.rawEvents.GetByID(ctx, rawEventID)
	if err != nil {
		return nil, fmt.Errorf("get raw event: %w", err)
	}

	existing, err := s.matches.GetByRawEventID(ctx, rawEventID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("check existing link: %w", err)
	}
	if existing != nil && existing.EventID != eventID {
		return nil, ErrRawEventLinked
	}

	reference := repository.RawEvent{
		Title:     event.Title,
		StartDate: event.StartDate,
		StartTime: event.StartTime,
		Location:  event.Location,
	}
	confidence := ShouldMatch(reference, *raw).Confidence

	return s.matches.Create(ctx, repository.CreateEventMatchRequest{
		EventID:    eventID,
		RawEventID: rawEventID,
		MatchType:  repository.MatchTypeManual,
		Confidence: confidence,
		MatchedBy:  matchedBy,
	})
}

// Unlink removes a match link
func (s *MatchService) Unlink(ctx context.Context, matchID uuid.UUID) error {
	return s.matches.Delete(ctx, matchID)
}

// ListForEvent returns all match links for a canonical event
func (s *MatchService) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]repository.EventMatch, error) {
	return s.matches.ListByEvent(ctx, eventID)
}
