package service

import "campus-ops/internal/matching"

// Interval overlap rules shared by the conflict detector and the
// availability checker.

// overlapMinutes returns the length of the intersection of two
// minute-of-day intervals, or 0 when they are disjoint.
func overlapMinutes(start1, end1, start2, end2 int) int {
	lo := start2
	if start1 > start2 {
		lo = start1
	}
	hi := end2
	if end1 < end2 {
		hi = end1
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// substantialOverlap declares a conflict only when the overlap is large
// relative to EITHER event's own duration. The tolerant threshold avoids
// flagging back-to-back meetings with minor scheduling slop.
func substantialOverlap(start1, end1, start2, end2 int, threshold float64) bool {
	overlap := overlapMinutes(start1, end1, start2, end2)
	if overlap == 0 {
		return false
	}

	dur1 := end1 - start1
	dur2 := end2 - start2
	if dur1 <= 0 || dur2 <= 0 {
		return false
	}

	return float64(overlap)/float64(dur1) > threshold ||
		float64(overlap)/float64(dur2) > threshold
}

// timeSlot is a parsed (start, end) pair in minutes since midnight.
type timeSlot struct {
	start    int
	end      int
	hasStart bool
	hasEnd   bool
}

func parseSlot(startTime, endTime *string) timeSlot {
	var slot timeSlot
	if startTime != nil {
		slot.start, slot.hasStart = matching.ParseClockMinutes(*startTime)
	}
	if endTime != nil {
		slot.end, slot.hasEnd = matching.ParseClockMinutes(*endTime)
	}
	return slot
}

// slotsConflict applies the ratio rule when both slots have full
// intervals; when an end time is missing the only defensible signal is
// identical start times.
func slotsConflict(a, b timeSlot, threshold float64) bool {
	if !a.hasStart || !b.hasStart {
		return false
	}
	if a.hasEnd && b.hasEnd {
		return substantialOverlap(a.start, a.end, b.start, b.end, threshold)
	}
	return a.start == b.start
}
