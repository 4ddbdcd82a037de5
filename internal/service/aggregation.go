package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-ops/internal/db"
	"campus-ops/internal/logger"
	"campus-ops/internal/repository"

	"github.com/google/uuid"
)

type rawEventLister interface {
	ListFromDate(ctx context.Context, from time.Time) ([]repository.RawEvent, error)
}

type eventUpserter interface {
	GetBySourceKey(ctx context.Context, key string, from time.Time) (*repository.Event, error)
	Insert(ctx context.Context, req repository.InsertEventRequest) (*repository.Event, error)
	UpdateAggregated(ctx context.Context, id uuid.UUID, req repository.UpdateAggregatedRequest) (*repository.Event, error)
}

type reservationResolver interface {
	ResolveForeignReservation(ctx context.Context, ev repository.RawEvent) (int32, bool, error)
}

// AggregationService merges raw events into canonical events. Each run
// is a discrete, stateless batch over the date range from "from"
// forward; reruns are idempotent because the upsert key is the sorted
// set of contributing raw event ids.
type AggregationService struct {
	rawEvents rawEventLister
	events    eventUpserter
	resolver  reservationResolver
	workers   int
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(rawEvents rawEventLister, events eventUpserter, resolver reservationResolver, workers int) *AggregationService {
	if workers < 1 {
		workers = 1
	}
	return &AggregationService{
		rawEvents: rawEvents,
		events:    events,
		resolver:  resolver,
		workers:   workers,
	}
}

// AggregationResult summarizes one aggregation run.
type AggregationResult struct {
	RawEvents     int   `json:"raw_events"`
	Clusters      int   `json:"clusters"`
	EventsCreated int   `json:"events_created"`
	EventsUpdated int   `json:"events_updated"`
	EventsFailed  int   `json:"events_failed"`
	DurationMs    int64 `json:"duration_ms"`
}

// Run executes one aggregation pass. A failure reading raw events
// aborts the whole run; individual upsert failures are counted and the
// run continues, since each upsert commits independently and a rerun is
// always safe.
func (s *AggregationService) Run(ctx context.Context, from time.Time) (*AggregationResult, error) {
	start := time.Now()

	raws, err := s.rawEvents.ListFromDate(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("list raw events: %w", err)
	}

	s.resolveResources(ctx, raws)

	byDate := make(map[string][]repository.RawEvent)
	for _, ev := range raws {
		key := ev.StartDate.Format("2006-01-02")
		byDate[key] = append(byDate[key], ev)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var drafts []repository.InsertEventRequest
	for _, d := range dates {
		for _, cluster := range clusterBySeed(byDate[d]) {
			drafts = append(drafts, synthesizeDraft(cluster))
		}
	}

	result := &AggregationResult{
		RawEvents: len(raws),
		Clusters:  len(drafts),
	}

	// Upserts are independent (source keys are disjoint by
	// construction), so they may run concurrently. Each failure is
	// reported per record, never aborting the batch.
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)
	for _, draft := range drafts {
		wg.Add(1)
		sem <- struct{}{}
		go func(draft repository.InsertEventRequest) {
			defer wg.Done()
			defer func() { <-sem }()

			created, err := s.upsertOne(ctx, from, draft)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.EventsFailed++
				logger.Error().
					Err(err).
					Str("source_key", draft.SourceKey).
					Str("title", draft.Title).
					Msg("canonical event upsert failed")
			case created:
				result.EventsCreated++
			default:
				result.EventsUpdated++
			}
		}(draft)
	}
	wg.Wait()

	result.DurationMs = time.Since(start).Milliseconds()

	logger.Info().
		Int("raw_events", result.RawEvents).
		Int("clusters", result.Clusters).
		Int("created", result.EventsCreated).
		Int("updated", result.EventsUpdated).
		Int("failed", result.EventsFailed).
		Int64("duration_ms", result.DurationMs).
		Msg("aggregation run completed")

	return result, nil
}

// upsertOne reconciles one synthesized draft against the event store.
// Returns true when a new canonical event was inserted.
func (s *AggregationService) upsertOne(ctx context.Context, from time.Time, draft repository.InsertEventRequest) (bool, error) {
	existing, err := s.events.GetBySourceKey(ctx, draft.SourceKey, from)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			if _, err := s.events.Insert(ctx, draft); err != nil {
				return false, fmt.Errorf("insert event: %w", err)
			}
			return true, nil
		}
		return false, fmt.Errorf("lookup event by source key: %w", err)
	}

	_, err = s.events.UpdateAggregated(ctx, existing.ID, repository.UpdateAggregatedRequest{
		Title:          draft.Title,
		Description:    draft.Description,
		EventType:      draft.EventType,
		StartDate:      draft.StartDate,
		EndDate:        draft.EndDate,
		StartTime:      draft.StartTime,
		EndTime:        draft.EndTime,
		AllDay:         draft.AllDay,
		Location:       draft.Location,
		ResourceID:     draft.ResourceID,
		SourceEventIDs: draft.SourceEventIDs,
		PrimarySource:  draft.PrimarySource,
		Sources:        draft.Sources,
	})
	if err != nil {
		return false, fmt.Errorf("update event: %w", err)
	}
	return false, nil
}

// resolveResources fills in canonical resource ids for raw events that
// lack one, using the alias resolver. Resolution failures are just an
// absent signal, never an error.
func (s *AggregationService) resolveResources(ctx context.Context, raws []repository.RawEvent) {
	if s.resolver == nil {
		return
	}
	for i := range raws {
		if raws[i].ResourceID != nil {
			continue
		}
		id, ok, err := s.resolver.ResolveForeignReservation(ctx, raws[i])
		if err != nil {
			logger.Warn().Err(err).Str("source_id", raws[i].SourceID).Msg("resource resolution failed")
			continue
		}
		if ok {
			raws[i].ResourceID = &id
		}
	}
}
