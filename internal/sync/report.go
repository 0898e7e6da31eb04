package sync

import (
	"time"

	"einsync/internal/radarr"
)

// Outcome classifies what happened to one wanted movie during a run.
type Outcome string

const (
	// OutcomeDownloaded means the best match was resolved and written to disk.
	OutcomeDownloaded Outcome = "downloaded"
	// OutcomeMatched means a dry run found an acceptable match but did not
	// resolve or download it.
	OutcomeMatched Outcome = "matched"
	// OutcomeAlreadyPresent means a matching file existed before the run.
	OutcomeAlreadyPresent Outcome = "already-present"
	// OutcomeNotFound means no catalog partition returned a plausible entry.
	OutcomeNotFound Outcome = "not-found"
	// OutcomeLowConfidence means the best candidate scored below the
	// acceptance threshold.
	OutcomeLowConfidence Outcome = "low-confidence"
	// OutcomeResolveFailed means the watch page could not be resolved to
	// media links.
	OutcomeResolveFailed Outcome = "resolve-failed"
	// OutcomeDownloadFailed means the transfer failed after all retries.
	OutcomeDownloadFailed Outcome = "download-failed"
)

// Item records the result for a single wanted movie.
type Item struct {
	Movie    radarr.Movie
	Outcome  Outcome
	Score    float64
	Language string
	Path     string
	Err      error
}

// Report summarizes one sync run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Wanted    int
	Items     []Item
}

// Downloaded counts items that were written to disk this run.
func (r *Report) Downloaded() int { return r.count(OutcomeDownloaded) }

// Matched counts dry-run items that would have been downloaded.
func (r *Report) Matched() int { return r.count(OutcomeMatched) }

// Skipped counts items that needed no work: already present, not found, or
// below the acceptance threshold.
func (r *Report) Skipped() int {
	return r.count(OutcomeAlreadyPresent) + r.count(OutcomeNotFound) + r.count(OutcomeLowConfidence)
}

// Failed counts items that errored while resolving or downloading.
func (r *Report) Failed() int {
	return r.count(OutcomeResolveFailed) + r.count(OutcomeDownloadFailed)
}

func (r *Report) count(outcome Outcome) int {
	n := 0
	for _, item := range r.Items {
		if item.Outcome == outcome {
			n++
		}
	}
	return n
}
