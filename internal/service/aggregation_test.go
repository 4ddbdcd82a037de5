package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-ops/internal/db"
	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRawEventLister struct {
	events []repository.RawEvent
	err    error
}

func (f *fakeRawEventLister) ListFromDate(_ context.Context, _ time.Time) ([]repository.RawEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeEventStore struct {
	mu        sync.Mutex
	byKey     map[string]*repository.Event
	byID      map[uuid.UUID]*repository.Event
	inserts   int
	updates   int
	insertErr error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		byKey: make(map[string]*repository.Event),
		byID:  make(map[uuid.UUID]*repository.Event),
	}
}

func (f *fakeEventStore) GetBySourceKey(_ context.Context, key string, _ time.Time) (*repository.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.byKey[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventStore) Insert(_ context.Context, req repository.InsertEventRequest) (*repository.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	ev := &repository.Event{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		EventType:      req.EventType,
		StartDate:      req.StartDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AllDay:         req.AllDay,
		Location:       req.Location,
		ResourceID:     req.ResourceID,
		Teams:          req.Teams,
		SourceKey:      req.SourceKey,
		SourceEventIDs: req.SourceEventIDs,
		PrimarySource:  req.PrimarySource,
		Sources:        req.Sources,
	}
	f.byKey[req.SourceKey] = ev
	f.byID[ev.ID] = ev
	f.inserts++
	return ev, nil
}

func (f *fakeEventStore) UpdateAggregated(_ context.Context, id uuid.UUID, req repository.UpdateAggregatedRequest) (*repository.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	ev.Title = req.Title
	ev.Description = req.Description
	ev.EventType = req.EventType
	ev.StartTime = req.StartTime
	ev.EndTime = req.EndTime
	ev.AllDay = req.AllDay
	ev.Location = req.Location
	ev.ResourceID = req.ResourceID
	f.updates++
	return ev, nil
}

type fakeResolver struct {
	byResource map[string]int32
}

func (f *fakeResolver) ResolveForeignReservation(_ context.Context, ev repository.RawEvent) (int32, bool, error) {
	if ev.Resource == nil {
		return 0, false, nil
	}
	id, ok := f.byResource[*ev.Resource]
	return id, ok, nil
}

func TestAggregationCreatesEventsFromClusters(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	c := rawEvent(source.CalendarMS, "Chess Club", day(2025, 3, 10))

	store := newFakeEventStore()
	svc := NewAggregationService(&fakeRawEventLister{events: []repository.RawEvent{a, b, c}}, store, nil, 2)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, 3, result.RawEvents)
	assert.Equal(t, 2, result.Clusters)
	assert.Equal(t, 2, result.EventsCreated)
	assert.Zero(t, result.EventsUpdated)
	assert.Zero(t, result.EventsFailed)

	merged, err := store.GetBySourceKey(context.Background(), sourceKey([]uuid.UUID{a.ID, b.ID}), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, source.BigQueryGroup, merged.PrimarySource)
}

func TestAggregationRerunIsIdempotent(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))

	store := newFakeEventStore()
	lister := &fakeRawEventLister{events: []repository.RawEvent{a, b}}
	svc := NewAggregationService(lister, store, nil, 2)

	first, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, first.EventsCreated)

	second, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Zero(t, second.EventsCreated)
	assert.Equal(t, 1, second.EventsUpdated)
	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 1, store.updates)
}

func TestAggregationRerunPreservesOperatorFields(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Spring Concert", day(2025, 3, 10))

	store := newFakeEventStore()
	svc := NewAggregationService(&fakeRawEventLister{events: []repository.RawEvent{a}}, store, nil, 1)

	_, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	// An operator hides the event and adjusts team flags between runs.
	created := store.byKey[sourceKey([]uuid.UUID{a.ID})]
	created.Hidden = true
	created.Teams.Custodial = true
	created.TeamNotes = strPtr("double-check chairs")

	_, err = svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	after := store.byKey[sourceKey([]uuid.UUID{a.ID})]
	assert.True(t, after.Hidden)
	assert.True(t, after.Teams.Custodial)
	assert.Equal(t, "double-check chairs", *after.TeamNotes)
}

func TestAggregationRawReadFailureAborts(t *testing.T) {
	svc := NewAggregationService(&fakeRawEventLister{err: errors.New("connection refused")}, newFakeEventStore(), nil, 1)

	_, err := svc.Run(context.Background(), day(2025, 3, 10))
	assert.Error(t, err)
}

func TestAggregationUpsertFailuresDoNotAbort(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarMS, "Chess Club", day(2025, 3, 10))

	store := newFakeEventStore()
	store.insertErr = errors.New("constraint violation")
	svc := NewAggregationService(&fakeRawEventLister{events: []repository.RawEvent{a, b}}, store, nil, 2)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, 2, result.EventsFailed)
	assert.Zero(t, result.EventsCreated)
}

func TestAggregationResolvesMissingResourceIDs(t *testing.T) {
	a := rawEvent(source.BigQueryResource, "Gym booking", day(2025, 3, 10))
	a.Resource = strPtr("Main Gym")

	store := newFakeEventStore()
	resolver := &fakeResolver{byResource: map[string]int32{"Main Gym": 12}}
	svc := NewAggregationService(&fakeRawEventLister{events: []repository.RawEvent{a}}, store, resolver, 1)

	_, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	created := store.byKey[sourceKey([]uuid.UUID{a.ID})]
	require.NotNil(t, created.ResourceID)
	assert.Equal(t, int32(12), *created.ResourceID)
}

func TestAggregationDifferentDatesNeverMerge(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 11))

	store := newFakeEventStore()
	svc := NewAggregationService(&fakeRawEventLister{events: []repository.RawEvent{a, b}}, store, nil, 2)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, result.EventsCreated)
}
