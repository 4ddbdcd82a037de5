package service

import (
	"testing"
	"time"

	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rawEvent(src source.Source, title string, date time.Time) repository.RawEvent {
	return repository.RawEvent{
		ID:        uuid.New(),
		Source:    src,
		SourceID:  uuid.NewString(),
		Title:     title,
		StartDate: date,
	}
}

func TestShouldMatchDifferentDatesNeverMatch(t *testing.T) {
	a := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	a.Location = strPtr("Library")
	a.StartTime = strPtr("9:00 am")

	b := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 11))
	b.Location = strPtr("Library")
	b.StartTime = strPtr("9:00 am")

	result := ShouldMatch(a, b)
	assert.False(t, result.Match)
	assert.Zero(t, result.Confidence)
}

func TestShouldMatchExternalReservationID(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Spring Gala", day(2025, 3, 10))
	a.ExternalReservationID = strPtr("RES-4521")

	b := rawEvent(source.BigQueryResource, "Gym reservation", day(2025, 3, 10))
	b.ExternalReservationID = strPtr("RES-4521")

	result := ShouldMatch(a, b)
	assert.True(t, result.Match)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestShouldMatchExternalReservationIDRequiresSameDate(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Spring Gala", day(2025, 3, 10))
	a.ExternalReservationID = strPtr("RES-4521")

	b := rawEvent(source.BigQueryResource, "Spring Gala", day(2025, 3, 17))
	b.ExternalReservationID = strPtr("RES-4521")

	result := ShouldMatch(a, b)
	assert.False(t, result.Match)
}

func TestShouldMatchWeightedSignals(t *testing.T) {
	t.Run("identical title alone clears the threshold", func(t *testing.T) {
		a := rawEvent(source.CalendarStaff, "Faculty Assembly", day(2025, 3, 10))
		b := rawEvent(source.CalendarLS, "Faculty Assembly", day(2025, 3, 10))

		result := ShouldMatch(a, b)
		assert.True(t, result.Match)
		assert.InDelta(t, 0.75, result.Confidence, 1e-9) // title 0.6 + time-no-signal 0.15
	})

	t.Run("unrelated titles in the same room do not match", func(t *testing.T) {
		a := rawEvent(source.CalendarStaff, "Chess Club", day(2025, 3, 10))
		a.Location = strPtr("Library")
		a.StartTime = strPtr("3:00 pm")

		b := rawEvent(source.CalendarMS, "Debate Practice", day(2025, 3, 10))
		b.Location = strPtr("Library")
		b.StartTime = strPtr("4:00 pm")

		result := ShouldMatch(a, b)
		assert.False(t, result.Match)
	})

	t.Run("similar title plus matching location and time", func(t *testing.T) {
		a := rawEvent(source.BigQueryGroup, "Monthly Board Meeting", day(2025, 3, 10))
		a.Location = strPtr("Conference Room")
		a.StartTime = strPtr("9:00 am")

		b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
		b.Location = strPtr("Conference Room")
		b.StartTime = strPtr("2025-03-10T09:00:00")

		result := ShouldMatch(a, b)
		assert.True(t, result.Match)
		// containment 0.8*0.6 + location 0.25 + time 0.15
		assert.InDelta(t, 0.88, result.Confidence, 1e-9)
	})

	t.Run("different parsed start times lose the time weight", func(t *testing.T) {
		a := rawEvent(source.CalendarStaff, "Faculty Assembly", day(2025, 3, 10))
		a.StartTime = strPtr("9:00 am")

		b := rawEvent(source.CalendarLS, "Faculty Assembly", day(2025, 3, 10))
		b.StartTime = strPtr("10:00 am")

		result := ShouldMatch(a, b)
		assert.InDelta(t, 0.6, result.Confidence, 1e-9)
		assert.True(t, result.Match)
	})
}

func TestShouldMatchResourceNameFallback(t *testing.T) {
	a := rawEvent(source.BigQueryResource, "Gym Reservation", day(2025, 3, 10))
	a.Resource = strPtr("  Main Gym ")

	b := rawEvent(source.CalendarMS, "Gym reservation", day(2025, 3, 10))
	b.Resource = strPtr("main gym")

	result := ShouldMatch(a, b)
	assert.True(t, result.Match)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestShouldMatchUnparseableTimeIsNoSignal(t *testing.T) {
	a := rawEvent(source.CalendarStaff, "Faculty Assembly", day(2025, 3, 10))
	a.StartTime = strPtr("after lunch")

	b := rawEvent(source.CalendarLS, "Faculty Assembly", day(2025, 3, 10))
	b.StartTime = strPtr("9:00 am")

	result := ShouldMatch(a, b)
	assert.InDelta(t, 0.75, result.Confidence, 1e-9)
}
