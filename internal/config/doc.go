// Package config loads, normalizes, and validates Shelfgap configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_TOKEN and TRAKT_CLIENT_ID. The Config type centralizes every knob the
// CLI needs: the Plex connection, reference-list sources, matching policy,
// report output, and the optional Radarr/Sonarr and ntfy integrations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
