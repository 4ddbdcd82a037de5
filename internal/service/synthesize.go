package service

import (
	"sort"
	"strings"
	"time"

	"campus-ops/internal/repository"
	"campus-ops/internal/source"

	"github.com/google/uuid"
)

// electPrimary picks the cluster's record of truth by fixed source
// priority. The sort is stable, so same-source ties fall back to input
// order.
func electPrimary(cluster []repository.RawEvent) repository.RawEvent {
	sorted := make([]repository.RawEvent, len(cluster))
	copy(sorted, cluster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return source.Priority(sorted[i].Source) < source.Priority(sorted[j].Source)
	})
	return sorted[0]
}

// synthesizeDraft merges a cluster into the canonical field set. The
// primary supplies title and event type; remaining display fields take
// the first non-null value in cluster order, so the primary does not
// have to supply every field.
func synthesizeDraft(cluster []repository.RawEvent) repository.InsertEventRequest {
	primary := electPrimary(cluster)

	ids := make([]uuid.UUID, len(cluster))
	for i, ev := range cluster {
		ids[i] = ev.ID
	}

	allDay := true
	for _, ev := range cluster {
		if ev.StartTime != nil {
			allDay = false
			break
		}
	}

	eventType := determineEventType(primary)

	return repository.InsertEventRequest{
		Title:          primary.Title,
		Description:    firstText(cluster, func(ev repository.RawEvent) *string { return ev.Description }),
		EventType:      eventType,
		StartDate:      primary.StartDate,
		EndDate:        firstDate(cluster),
		StartTime:      firstText(cluster, func(ev repository.RawEvent) *string { return ev.StartTime }),
		EndTime:        firstText(cluster, func(ev repository.RawEvent) *string { return ev.EndTime }),
		AllDay:         allDay,
		Location:       firstText(cluster, func(ev repository.RawEvent) *string { return ev.Location }),
		ResourceID:     firstResourceID(cluster),
		Teams:          defaultTeamNeeds(eventType),
		SourceKey:      sourceKey(ids),
		SourceEventIDs: ids,
		PrimarySource:  primary.Source,
		Sources:        distinctSources(cluster),
	}
}

// firstText returns the first non-null value of a field in cluster
// order. The selection policy is parameterized on the accessor so it is
// testable independent of the clustering algorithm.
func firstText(cluster []repository.RawEvent, get func(repository.RawEvent) *string) *string {
	for _, ev := range cluster {
		if v := get(ev); v != nil {
			return v
		}
	}
	return nil
}

func firstDate(cluster []repository.RawEvent) *time.Time {
	for _, ev := range cluster {
		if ev.EndDate != nil {
			return ev.EndDate
		}
	}
	return nil
}

func firstResourceID(cluster []repository.RawEvent) *int32 {
	for _, ev := range cluster {
		if ev.ResourceID != nil {
			return ev.ResourceID
		}
	}
	return nil
}

func distinctSources(cluster []repository.RawEvent) []source.Source {
	seen := make(map[source.Source]struct{}, len(cluster))
	var out []source.Source
	for _, ev := range cluster {
		if _, ok := seen[ev.Source]; ok {
			continue
		}
		seen[ev.Source] = struct{}{}
		out = append(out, ev.Source)
	}
	return out
}

// sourceKey builds the durable upsert identity: the sorted, comma-joined
// set of contributing raw event ids. Order of contribution is
// irrelevant, so reruns always produce the same key for the same set.
func sourceKey(ids []uuid.UUID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, ",")
}
