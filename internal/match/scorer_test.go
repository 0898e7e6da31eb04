package match_test

import (
	"testing"

	"einsync/internal/catalog"
	"einsync/internal/match"
)

func entry(title string, year int) catalog.Entry {
	return catalog.Entry{ID: title, Title: title, Year: year, Partition: "tamil"}
}

func TestScoreYearBoostMonotonicity(t *testing.T) {
	target := match.Target{Title: "Vikram", Year: 2022}

	exact := match.Score(target, entry("Vikram", 2022))
	near := match.Score(target, entry("Vikram", 2021))
	far := match.Score(target, entry("Vikram", 2010))

	// Identical titles saturate at 1 regardless of the year gap.
	if exact != 1 || near != 1 || far != 1 {
		t.Fatalf("identical titles = %v/%v/%v, want 1 each", exact, near, far)
	}

	// The boost only orders candidates for partial title matches.
	partial := match.Target{Title: "Vikram Vedha", Year: 2022}
	pexact := match.Score(partial, entry("Vikram", 2022))
	pnear := match.Score(partial, entry("Vikram", 2021))
	pfar := match.Score(partial, entry("Vikram", 2010))
	if !(pexact > pnear && pnear > pfar) {
		t.Fatalf("want exact %v > near %v > far %v", pexact, pnear, pfar)
	}
}

func TestScoreClampedToOne(t *testing.T) {
	target := match.Target{Title: "Vikram", Year: 2022}
	if got := match.Score(target, entry("Vikram", 2022)); got != 1 {
		t.Fatalf("Score = %v, want 1 after clamping", got)
	}
}

func TestScoreNormalizesPunctuation(t *testing.T) {
	target := match.Target{Title: "K.G.F: Chapter 2"}
	if got := match.Score(target, entry("KGF Chapter 2", 0)); got != 1 {
		t.Fatalf("Score = %v, want 1 for punctuation-only difference", got)
	}
}

func TestBestReturnsNilBelowFloor(t *testing.T) {
	target := match.Target{Title: "Soorarai Pottru", Year: 2020}
	candidates := []catalog.Entry{
		entry("Completely Different Movie", 1999),
		entry("Another Unrelated Film", 2003),
	}
	if got := match.Best(target, candidates, match.Floor); got != nil {
		t.Fatalf("Best = %#v, want nil below floor", got)
	}
}

func TestBestEnforcesFloorEvenWithLowerThreshold(t *testing.T) {
	target := match.Target{Title: "Soorarai Pottru", Year: 2020}
	candidates := []catalog.Entry{entry("Completely Different Movie", 1999)}
	if got := match.Best(target, candidates, 0.1); got != nil {
		t.Fatalf("Best = %#v, want nil; 0.6 is an absolute floor", got)
	}
}

func TestBestFirstSeenWinsTies(t *testing.T) {
	target := match.Target{Title: "Vikram", Year: 2022}
	candidates := []catalog.Entry{
		{ID: "first", Title: "Vikram", Year: 2022},
		{ID: "second", Title: "Vikram", Year: 2022},
	}
	best := match.Best(target, candidates, match.Floor)
	if best == nil || best.Entry.ID != "first" {
		t.Fatalf("best = %#v, want first-seen entry", best)
	}
}

func TestBestPicksHighestScore(t *testing.T) {
	target := match.Target{Title: "Vikram", Year: 2022}
	candidates := []catalog.Entry{
		entry("Vikram Vedha", 2017),
		entry("Vikram", 2022),
		entry("Vikram Dhada", 2012),
	}
	best := match.Best(target, candidates, match.Floor)
	if best == nil || best.Entry.Title != "Vikram" {
		t.Fatalf("best = %#v, want exact title", best)
	}
	if best.Score != 1 {
		t.Fatalf("score = %v, want 1", best.Score)
	}
}

func TestBestEmptyCandidates(t *testing.T) {
	if got := match.Best(match.Target{Title: "Vikram"}, nil, match.Floor); got != nil {
		t.Fatalf("Best = %#v, want nil for empty candidates", got)
	}
}
