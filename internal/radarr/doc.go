// Package radarr is a thin client for the Radarr v3 API: listing the movie
// library and triggering rescans. Failures from this collaborator are
// advisory; the sync loop logs them and keeps going.
package radarr
