package match

import (
	"einsync/internal/catalog"
	"einsync/internal/textutil"
)

const (
	// Floor is the absolute minimum score a candidate must reach before it
	// can be considered at all. Callers layer stricter acceptance thresholds
	// on top.
	Floor = 0.6

	exactYearBoost = 0.30
	nearYearBoost  = 0.10
)

// Target is the wanted title a candidate set is ranked against.
type Target struct {
	Title string
	Year  int
}

// Candidate pairs a catalog entry with its score against a target.
type Candidate struct {
	Entry catalog.Entry
	Score float64
}

// Score rates one entry against the target in [0, 1]: the similarity of the
// normalized titles, boosted for an exact (+0.30) or adjacent (+0.10) year
// match and clamped to 1.
func Score(target Target, entry catalog.Entry) float64 {
	score := textutil.Ratio(textutil.NormalizeTitle(target.Title), textutil.NormalizeTitle(entry.Title))
	if target.Year != 0 {
		diff := target.Year - entry.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case entry.Year == target.Year:
			score += exactYearBoost
		case diff <= 1:
			score += nearYearBoost
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Best returns the highest-scoring candidate, or nil when no entry reaches
// minAcceptable (never below Floor). Ties keep the first-seen entry: the
// comparison is strictly greater-than.
func Best(target Target, entries []catalog.Entry, minAcceptable float64) *Candidate {
	if minAcceptable < Floor {
		minAcceptable = Floor
	}
	var best *Candidate
	for _, entry := range entries {
		score := Score(target, entry)
		if best == nil || score > best.Score {
			best = &Candidate{Entry: entry, Score: score}
		}
	}
	if best == nil || best.Score < minAcceptable {
		return nil
	}
	return best
}
