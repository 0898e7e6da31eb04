// Package sync drives the wanted-list resolution loop.
//
// A Syncer pulls the missing-movie list from Radarr, searches the Einthusan
// language catalogs for each title, scores the candidates, and downloads the
// best match when it clears the acceptance threshold. Each movie resolves to
// exactly one outcome; the run as a whole produces a Report that the CLI
// renders and notifications summarize.
//
// The loop is deliberately sequential. Einthusan rate-limits aggressively,
// so one catalog request at a time with a configured gap is the only pacing
// that survives a full wanted list.
package sync
