package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-ops/internal/repository"

	"github.com/google/uuid"
)

// ErrInvalidTimeRange is returned when an availability request carries
// unparseable or inverted times.
var ErrInvalidTimeRange = errors.New("invalid time range")

type availabilityEventStore interface {
	ListByResourceDate(ctx context.Context, resourceID int32, date time.Time) ([]repository.Event, error)
}

// AvailabilityService answers ad-hoc "is this room free" checks using
// the ratio overlap rule.
type AvailabilityService struct {
	events    availabilityEventStore
	threshold float64
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(events availabilityEventStore, threshold float64) *AvailabilityService {
	return &AvailabilityService{events: events, threshold: threshold}
}

// AvailabilityRequest describes the slot being checked. ExcludeEventID
// lets an operator recheck a slot while editing that event.
type AvailabilityRequest struct {
	ResourceID     int32
	Date           time.Time
	StartTime      string
	EndTime        string
	ExcludeEventID *uuid.UUID
}

// AvailabilityResult reports whether the slot is free and which events
// collide with it.
type AvailabilityResult struct {
	Available bool               `json:"available"`
	Conflicts []repository.Event `json:"conflicts"`
}

// Check reports availability of a resource at a date and time slot.
func (s *AvailabilityService) Check(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	requested := parseSlot(&req.StartTime, &req.EndTime)
	if !requested.hasStart || !requested.hasEnd || requested.end <= requested.start {
		return nil, fmt.Errorf("%w: start=%q end=%q", ErrInvalidTimeRange, req.StartTime, req.EndTime)
	}

	events, err := s.events.ListByResourceDate(ctx, req.ResourceID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list events for resource: %w", err)
	}

	result := &AvailabilityResult{Available: true, Conflicts: []repository.Event{}}
	for _, ev := range events {
		if req.ExcludeEventID != nil && ev.ID == *req.ExcludeEventID {
			continue
		}
		slot := parseSlot(ev.StartTime, ev.EndTime)
		if slotsConflict(requested, slot, s.threshold) {
			result.Conflicts = append(result.Conflicts, ev)
		}
	}
	result.Available = len(result.Conflicts) == 0

	return result, nil
}
