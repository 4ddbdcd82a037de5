package service

import "campus-ops/internal/repository"

// clusterBySeed performs greedy single-pass clustering over one date's
// raw events. Each not-yet-clustered event seeds a cluster; later
// unclustered events join when they match the SEED, not other members.
// This is deliberately non-transitive: with ambiguous groupings the
// earliest seed wins, which keeps reruns deterministic for a stable
// input order.
func clusterBySeed(events []repository.RawEvent) [][]repository.RawEvent {
	clustered := make([]bool, len(events))
	var clusters [][]repository.RawEvent

	for i := range events {
		if clustered[i] {
			continue
		}
		clustered[i] = true
		cluster := []repository.RawEvent{events[i]}

		for j := i + 1; j < len(events); j++ {
			if clustered[j] {
				continue
			}
			if result := ShouldMatch(events[i], events[j]); result.Match {
				clustered[j] = true
				cluster = append(cluster, events[j])
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
