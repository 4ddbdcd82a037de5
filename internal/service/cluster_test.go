package service

import (
	"testing"

	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/stretchr/testify/assert"
)

func TestClusterBySeedGroupsMatchingRecords(t *testing.T) {
	a := rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10))
	c := rawEvent(source.CalendarMS, "Chess Club", day(2025, 3, 10))

	clusters := clusterBySeed([]repository.RawEvent{a, b, c})

	assert.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2)
	assert.Equal(t, a.ID, clusters[0][0].ID)
	assert.Equal(t, b.ID, clusters[0][1].ID)
	assert.Len(t, clusters[1], 1)
	assert.Equal(t, c.ID, clusters[1][0].ID)
}

func TestClusterBySeedMatchesSeedNotMembers(t *testing.T) {
	// b matches the seed a; c matches b but not a. Seed-only comparison
	// must leave c out of a's cluster.
	a := rawEvent(source.BigQueryGroup, "Annual Gala Dinner", day(2025, 3, 10))
	b := rawEvent(source.CalendarStaff, "Gala Annual", day(2025, 3, 10))
	c := rawEvent(source.CalendarLS, "Gala Annual Night Party", day(2025, 3, 10))

	aToB := ShouldMatch(a, b)
	bToC := ShouldMatch(b, c)
	aToC := ShouldMatch(a, c)
	assert.True(t, aToB.Match)
	assert.True(t, bToC.Match)
	assert.False(t, aToC.Match)

	clusters := clusterBySeed([]repository.RawEvent{a, b, c})

	assert.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2)
	assert.Len(t, clusters[1], 1)
	assert.Equal(t, c.ID, clusters[1][0].ID)
}

func TestClusterBySeedEveryEventAssignedOnce(t *testing.T) {
	events := []repository.RawEvent{
		rawEvent(source.BigQueryGroup, "Board Meeting", day(2025, 3, 10)),
		rawEvent(source.CalendarStaff, "Board Meeting", day(2025, 3, 10)),
		rawEvent(source.CalendarMS, "Board Meeting", day(2025, 3, 10)),
		rawEvent(source.Manual, "Chess Club", day(2025, 3, 10)),
		rawEvent(source.CalendarLS, "PTA Coffee", day(2025, 3, 10)),
	}

	clusters := clusterBySeed(events)

	total := 0
	seen := make(map[string]bool)
	for _, cluster := range clusters {
		for _, ev := range cluster {
			assert.False(t, seen[ev.ID.String()], "event assigned twice")
			seen[ev.ID.String()] = true
			total++
		}
	}
	assert.Equal(t, len(events), total)
}

func TestClusterBySeedEmptyInput(t *testing.T) {
	assert.Empty(t, clusterBySeed(nil))
}
