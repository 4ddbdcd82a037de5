package matching

import "strings"

// Similarity scores how alike two strings are, in [0, 1]. The scale is
// deliberately cheap and explainable rather than a learned model:
// equal strings score 1.0, substring containment 0.8, anything else the
// Jaccard overlap of their word-token sets.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb {
		if na == "" {
			return 0
		}
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	tokensA := Tokens(na)
	tokensB := Tokens(nb)

	intersection := 0
	for t := range tokensA {
		if _, ok := tokensB[t]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
