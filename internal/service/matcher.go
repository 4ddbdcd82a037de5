package service

import (
	"strings"
	"time"

	"campus-ops/internal/matching"
	"campus-ops/internal/repository"
)

// MatchResult is the outcome of comparing two raw events.
type MatchResult struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
}

// ShouldMatch decides whether two raw events describe the same
// real-world event.
//
// Different calendar dates never match; that precondition short-circuits
// before any scoring. Matching records that share an external
// reservation id are trusted unconditionally, because systems that emit
// reservation ids are assumed reliable. Everything else needs a
// majority-weighted combination of title, location and time signals.
func ShouldMatch(a, b repository.RawEvent) MatchResult {
	if !sameDate(a.StartDate, b.StartDate) {
		return MatchResult{Match: false, Confidence: 0}
	}

	if a.ExternalReservationID != nil && b.ExternalReservationID != nil &&
		*a.ExternalReservationID == *b.ExternalReservationID {
		return MatchResult{Match: true, Confidence: 1.0}
	}

	titleSim := matching.Similarity(a.Title, b.Title)
	locationMatch := locationOrResourceMatch(a, b)
	timeMatch := startTimesCompatible(a.StartTime, b.StartTime)

	confidence := matching.EventConfig.Score(titleSim, locationMatch, timeMatch)

	return MatchResult{
		Match:      confidence >= matching.EventConfig.MatchThreshold,
		Confidence: confidence,
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func locationOrResourceMatch(a, b repository.RawEvent) bool {
	if a.Location != nil && b.Location != nil {
		if matching.Similarity(*a.Location, *b.Location) > matching.EventConfig.LocationThreshold {
			return true
		}
	}
	if a.Resource != nil && b.Resource != nil {
		if strings.EqualFold(strings.TrimSpace(*a.Resource), strings.TrimSpace(*b.Resource)) {
			return true
		}
	}
	return false
}

// startTimesCompatible treats a missing or unparseable time as "no
// signal" rather than a mismatch, so sparse records are not penalized.
func startTimesCompatible(a, b *string) bool {
	if a == nil || b == nil {
		return true
	}
	ma, okA := matching.ParseClockMinutes(*a)
	mb, okB := matching.ParseClockMinutes(*b)
	if !okA || !okB {
		return true
	}
	return ma == mb
}
