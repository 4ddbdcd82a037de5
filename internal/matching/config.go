package matching

// MatchConfig defines weights and thresholds for event deduplication.
type MatchConfig struct {
	TitleWeight       float64
	LocationWeight    float64
	TimeWeight        float64
	LocationThreshold float64
	MatchThreshold    float64
}

// EventConfig is the weighting used when deciding whether two raw event
// records describe the same real-world event. Titles carry most of the
// weight because they are the most source-invariant field.
var EventConfig = MatchConfig{
	TitleWeight:       0.6,
	LocationWeight:    0.25,
	TimeWeight:        0.15,
	LocationThreshold: 0.5,
	MatchThreshold:    0.5,
}

// Score calculates a weighted confidence for a candidate pair.
func (c MatchConfig) Score(titleSimilarity float64, locationMatch, timeMatch bool) float64 {
	score := titleSimilarity * c.TitleWeight
	if locationMatch {
		score += c.LocationWeight
	}
	if timeMatch {
		score += c.TimeWeight
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
