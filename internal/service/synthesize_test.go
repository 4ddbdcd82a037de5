package service

import (
	"strings"
	"testing"

	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestElectPrimaryBySourcePriority(t *testing.T) {
	manual := rawEvent(source.Manual, "Gym night", day(2025, 3, 10))
	calendar := rawEvent(source.CalendarStaff, "Family Gym Night", day(2025, 3, 10))
	reservation := rawEvent(source.BigQueryGroup, "Family Gym Night (Gym)", day(2025, 3, 10))

	primary := electPrimary([]repository.RawEvent{manual, calendar, reservation})
	assert.Equal(t, reservation.ID, primary.ID)
}

func TestElectPrimaryStableForSameSource(t *testing.T) {
	first := rawEvent(source.CalendarStaff, "Staff Meeting", day(2025, 3, 10))
	second := rawEvent(source.CalendarStaff, "Staff Meeting (copy)", day(2025, 3, 10))

	primary := electPrimary([]repository.RawEvent{first, second})
	assert.Equal(t, first.ID, primary.ID)
}

func TestSynthesizeDraftPrimarySuppliesTitle(t *testing.T) {
	manual := rawEvent(source.Manual, "gym thing", day(2025, 3, 10))
	manual.Description = strPtr("Open gym for families")

	reservation := rawEvent(source.BigQueryGroup, "Family Gym Night", day(2025, 3, 10))

	draft := synthesizeDraft([]repository.RawEvent{manual, reservation})

	assert.Equal(t, "Family Gym Night", draft.Title)
	assert.Equal(t, source.BigQueryGroup, draft.PrimarySource)
	// Description falls back to the first non-null in cluster order,
	// even though the manual record lost the primary election.
	assert.Equal(t, "Open gym for families", *draft.Description)
}

func TestSynthesizeDraftFirstNonNullFields(t *testing.T) {
	a := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarLS, "Board Meeting", day(2025, 3, 10))
	b.StartTime = strPtr("9:00 am")
	b.Location = strPtr("Conference Room")
	rid := int32(7)
	b.ResourceID = &rid

	draft := synthesizeDraft([]repository.RawEvent{a, b})

	assert.Equal(t, "9:00 am", *draft.StartTime)
	assert.Equal(t, "Conference Room", *draft.Location)
	assert.Equal(t, int32(7), *draft.ResourceID)
	assert.Nil(t, draft.EndTime)
}

func TestSynthesizeDraftAllDay(t *testing.T) {
	a := rawEvent(source.CalendarStaff, "Spirit Day", day(2025, 3, 10))
	b := rawEvent(source.CalendarLS, "Spirit Day", day(2025, 3, 10))

	draft := synthesizeDraft([]repository.RawEvent{a, b})
	assert.True(t, draft.AllDay)

	b.StartTime = strPtr("8:00 am")
	draft = synthesizeDraft([]repository.RawEvent{a, b})
	assert.False(t, draft.AllDay)
}

func TestSynthesizeDraftSources(t *testing.T) {
	a := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	c := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))

	draft := synthesizeDraft([]repository.RawEvent{a, b, c})

	assert.Equal(t, []source.Source{source.CalendarStaff, source.BigQueryGroup}, draft.Sources)
	assert.Len(t, draft.SourceEventIDs, 3)
}

func TestSourceKeyOrderIndependent(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	id3 := uuid.New()

	key1 := sourceKey([]uuid.UUID{id1, id2, id3})
	key2 := sourceKey([]uuid.UUID{id3, id1, id2})

	assert.Equal(t, key1, key2)
	assert.Len(t, strings.Split(key1, ","), 3)
}
