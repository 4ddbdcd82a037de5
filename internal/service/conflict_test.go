package service

import (
	"context"
	"testing"
	"time"

	"campus-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConflictStore struct {
	events        []repository.Event
	includeHidden *bool
	flagged       map[uuid.UUID]string
}

func newFakeConflictStore(events ...repository.Event) *fakeConflictStore {
	return &fakeConflictStore{events: events, flagged: make(map[uuid.UUID]string)}
}

func (f *fakeConflictStore) ListFromDate(_ context.Context, _ time.Time, includeHidden bool) ([]repository.Event, error) {
	f.includeHidden = &includeHidden
	return f.events, nil
}

func (f *fakeConflictStore) FlagConflict(_ context.Context, id uuid.UUID, note string) error {
	f.flagged[id] = note
	return nil
}

func canonicalEvent(title, location, startTime, endTime string, date time.Time) repository.Event {
	ev := repository.Event{
		ID:        uuid.New(),
		Title:     title,
		StartDate: date,
	}
	if location != "" {
		ev.Location = &location
	}
	if startTime != "" {
		ev.StartTime = &startTime
	}
	if endTime != "" {
		ev.EndTime = &endTime
	}
	return ev
}

func TestConflictRunFlagsBothSides(t *testing.T) {
	a := canonicalEvent("Board Meeting", "Library", "9:00 am", "10:00 am", day(2025, 3, 10))
	b := canonicalEvent("Book Fair Setup", "Library", "9:05 am", "9:35 am", day(2025, 3, 10))

	store := newFakeConflictStore(a, b)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, 2, result.EventsChecked)
	assert.Equal(t, 2, result.ConflictsFlagged)
	assert.Contains(t, store.flagged[a.ID], "Book Fair Setup")
	assert.Contains(t, store.flagged[b.ID], "Board Meeting")
}

func TestConflictRunToleratesMinorOverlap(t *testing.T) {
	a := canonicalEvent("Morning Minyan", "Chapel", "9:00 am", "9:30 am", day(2025, 3, 10))
	b := canonicalEvent("Torah Study", "Chapel", "9:15 am", "10:15 am", day(2025, 3, 10))

	store := newFakeConflictStore(a, b)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Zero(t, result.ConflictsFlagged)
}

func TestConflictRunGroupsByDateAndLocation(t *testing.T) {
	sameRoomOtherDay := canonicalEvent("Board Meeting", "Library", "9:00 am", "10:00 am", day(2025, 3, 11))
	sameDayOtherRoom := canonicalEvent("Board Meeting", "Gym", "9:00 am", "10:00 am", day(2025, 3, 10))
	a := canonicalEvent("Board Meeting", "Library", "9:00 am", "10:00 am", day(2025, 3, 10))

	store := newFakeConflictStore(a, sameRoomOtherDay, sameDayOtherRoom)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Zero(t, result.ConflictsFlagged)
}

func TestConflictRunLocationNormalization(t *testing.T) {
	a := canonicalEvent("Board Meeting", "  LIBRARY ", "9:00 am", "10:00 am", day(2025, 3, 10))
	b := canonicalEvent("Book Club", "library", "9:00 am", "10:00 am", day(2025, 3, 10))

	store := newFakeConflictStore(a, b)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ConflictsFlagged)
}

func TestConflictRunSkipsEventsWithoutLocation(t *testing.T) {
	a := canonicalEvent("Board Meeting", "", "9:00 am", "10:00 am", day(2025, 3, 10))
	b := canonicalEvent("Book Club", "", "9:00 am", "10:00 am", day(2025, 3, 10))

	store := newFakeConflictStore(a, b)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Zero(t, result.ConflictsFlagged)
}

func TestConflictRunExcludesHiddenEvents(t *testing.T) {
	store := newFakeConflictStore()
	svc := NewConflictService(store, 0.8)

	_, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	require.NotNil(t, store.includeHidden)
	assert.False(t, *store.includeHidden)
}

func TestConflictRunEqualStartsWithMissingEnds(t *testing.T) {
	a := canonicalEvent("Assembly", "Auditorium", "10:00 am", "", day(2025, 3, 10))
	b := canonicalEvent("Rehearsal", "Auditorium", "10:00 am", "", day(2025, 3, 10))

	store := newFakeConflictStore(a, b)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ConflictsFlagged)
}

func TestConflictRunCombinesNotesForMultipleConflicts(t *testing.T) {
	a := canonicalEvent("All Day Setup", "Gym", "8:00 am", "5:00 pm", day(2025, 3, 10))
	b := canonicalEvent("PE Class", "Gym", "9:00 am", "10:00 am", day(2025, 3, 10))
	c := canonicalEvent("Basketball Practice", "Gym", "3:00 pm", "4:00 pm", day(2025, 3, 10))

	store := newFakeConflictStore(a, b, c)
	svc := NewConflictService(store, 0.8)

	result, err := svc.Run(context.Background(), day(2025, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, 3, result.ConflictsFlagged)
	assert.Contains(t, store.flagged[a.ID], "PE Class")
	assert.Contains(t, store.flagged[a.ID], "Basketball Practice")
	assert.Contains(t, store.flagged[a.ID], "; ")
}
