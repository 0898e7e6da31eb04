// Package config loads, normalizes, and validates einsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RADARR_API_KEY. The Config type centralizes every knob the CLI needs,
// allowing the download directory, catalog endpoint, and Radarr credentials
// to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical partition names, and clear validation errors.
package config
