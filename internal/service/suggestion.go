package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"campus-ops/internal/db"
	"campus-ops/internal/repository"

	"github.com/google/uuid"
)

// Suggestions below this confidence are noise and not worth showing.
const minSuggestionConfidence = 0.3

type suggestionEventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Event, error)
}

type suggestionRawLister interface {
	ListByDate(ctx context.Context, date time.Time) ([]repository.RawEvent, error)
}

type suggestionMatchFinder interface {
	GetByRawEventID(ctx context.Context, rawEventID uuid.UUID) (*repository.EventMatch, error)
}

// SuggestionService proposes raw events that likely belong to a
// canonical event, scored with the same confidence function the
// aggregator matches with.
type SuggestionService struct {
	events  suggestionEventGetter
	raws    suggestionRawLister
	matches suggestionMatchFinder
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(events suggestionEventGetter, raws suggestionRawLister, matches suggestionMatchFinder) *SuggestionService {
	return &SuggestionService{events: events, raws: raws, matches: matches}
}

// MatchSuggestion is one scored candidate link.
type MatchSuggestion struct {
	RawEvent   repository.RawEvent `json:"raw_event"`
	Confidence float64             `json:"confidence"`
}

// SuggestMatches returns same-date raw events not yet contributing to
// the given canonical event, ranked by confidence.
func (s *SuggestionService) SuggestMatches(ctx context.Context, eventID uuid.UUID) ([]MatchSuggestion, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	candidates, err := s.raws.ListByDate(ctx, event.StartDate)
	if err != nil {
		return nil, fmt.Errorf("list raw events: %w", err)
	}

	contributing := make(map[uuid.UUID]struct{}, len(event.SourceEventIDs))
	for _, id := range event.SourceEventIDs {
		contributing[id] = struct{}{}
	}

	// Score candidates against a raw-event view of the canonical record.
	reference := repository.RawEvent{
		Title:     event.Title,
		StartDate: event.StartDate,
		StartTime: event.StartTime,
		Location:  event.Location,
	}

	var suggestions []MatchSuggestion
	for _, candidate := range candidates {
		if _, ok := contributing[candidate.ID]; ok {
			continue
		}

		linked, err := s.matches.GetByRawEventID(ctx, candidate.ID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("check existing link: %w", err)
		}
		if linked != nil {
			continue
		}

		result := ShouldMatch(reference, candidate)
		if result.Confidence < minSuggestionConfidence {
			continue
		}
		suggestions = append(suggestions, MatchSuggestion{
			RawEvent:   candidate,
			Confidence: result.Confidence,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}

	return suggestions, nil
}
