// Package source enumerates the external systems raw events arrive from
// and the trust order used when electing a primary record.
package source

import "fmt"

// Source identifies the system a raw event record was synced from.
type Source string

const (
	BigQueryGroup    Source = "bigquery_group"
	CalendarStaff    Source = "calendar_staff"
	CalendarLS       Source = "calendar_ls"
	CalendarMS       Source = "calendar_ms"
	BigQueryResource Source = "bigquery_resource"
	Manual           Source = "manual"
)

// priorityOrder encodes trust: system exports outrank self-service
// manual entries. Lower index wins primary election.
var priorityOrder = []Source{
	BigQueryGroup,
	CalendarStaff,
	CalendarLS,
	CalendarMS,
	BigQueryResource,
	Manual,
}

var priorities = func() map[Source]int {
	m := make(map[Source]int, len(priorityOrder))
	for i, s := range priorityOrder {
		m[s] = i
	}
	return m
}()

// Priority returns the election rank of a source; unknown sources rank
// after every known one.
func Priority(s Source) int {
	if p, ok := priorities[s]; ok {
		return p
	}
	return len(priorityOrder)
}

// Parse validates a source string.
func Parse(s string) (Source, error) {
	src := Source(s)
	if _, ok := priorities[src]; !ok {
		return "", fmt.Errorf("unknown event source: %q", s)
	}
	return src, nil
}

// All returns the known sources in priority order.
func All() []Source {
	out := make([]Source, len(priorityOrder))
	copy(out, priorityOrder)
	return out
}
