package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"campus-ops/internal/logger"
	"campus-ops/internal/matching"
	"campus-ops/internal/repository"

	"github.com/google/uuid"
)

type conflictEventStore interface {
	ListFromDate(ctx context.Context, from time.Time, includeHidden bool) ([]repository.Event, error)
	FlagConflict(ctx context.Context, id uuid.UUID, note string) error
}

// ConflictService finds canonical events competing for the same
// location and time. Flagging is monotonic within a run: it sets
// has_conflict and a note, never clears a prior flag and never touches
// an operator's conflict_ok override. Clearing is a manual action.
type ConflictService struct {
	events    conflictEventStore
	threshold float64
}

// NewConflictService creates a new conflict service
func NewConflictService(events conflictEventStore, threshold float64) *ConflictService {
	return &ConflictService{events: events, threshold: threshold}
}

// ConflictResult summarizes one conflict detection sweep.
type ConflictResult struct {
	EventsChecked    int   `json:"events_checked"`
	ConflictsFlagged int   `json:"conflicts_flagged"`
	DurationMs       int64 `json:"duration_ms"`
}

// Run sweeps non-hidden events from the given date forward. Events
// sharing a date and normalized location are compared pairwise with the
// ratio overlap rule; both sides of a conflicting pair are flagged.
func (s *ConflictService) Run(ctx context.Context, from time.Time) (*ConflictResult, error) {
	start := time.Now()

	events, err := s.events.ListFromDate(ctx, from, false)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	groups := make(map[string][]repository.Event)
	for _, ev := range events {
		if ev.Location == nil || matching.Normalize(*ev.Location) == "" {
			continue
		}
		key := ev.StartDate.Format("2006-01-02") + "|" + matching.Normalize(*ev.Location)
		groups[key] = append(groups[key], ev)
	}

	// Collect notes per event so an event in several conflicting pairs
	// is flagged once with all of them.
	notes := make(map[uuid.UUID][]string)
	byID := make(map[uuid.UUID]repository.Event)

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				slotA := parseSlot(a.StartTime, a.EndTime)
				slotB := parseSlot(b.StartTime, b.EndTime)
				if !slotsConflict(slotA, slotB, s.threshold) {
					continue
				}
				notes[a.ID] = append(notes[a.ID], conflictNote(b))
				notes[b.ID] = append(notes[b.ID], conflictNote(a))
				byID[a.ID] = a
				byID[b.ID] = b
			}
		}
	}

	result := &ConflictResult{EventsChecked: len(events)}

	ids := make([]uuid.UUID, 0, len(notes))
	for id := range notes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := s.events.FlagConflict(ctx, id, strings.Join(notes[id], "; ")); err != nil {
			logger.Error().
				Err(err).
				Str("event_id", id.String()).
				Msg("failed to flag conflict")
			continue
		}
		result.ConflictsFlagged++
	}

	result.DurationMs = time.Since(start).Milliseconds()

	logger.Info().
		Int("events_checked", result.EventsChecked).
		Int("conflicts_flagged", result.ConflictsFlagged).
		Int64("duration_ms", result.DurationMs).
		Msg("conflict sweep completed")

	return result, nil
}

func conflictNote(other repository.Event) string {
	slot := formatSlot(other.StartTime, other.EndTime)
	if slot == "" {
		return fmt.Sprintf("Overlaps with %q", other.Title)
	}
	return fmt.Sprintf("Overlaps with %q (%s)", other.Title, slot)
}

func formatSlot(startTime, endTime *string) string {
	slot := parseSlot(startTime, endTime)
	if !slot.hasStart {
		return ""
	}
	if !slot.hasEnd {
		return matching.FormatMinutes(slot.start)
	}
	return matching.FormatMinutes(slot.start) + " - " + matching.FormatMinutes(slot.end)
}
