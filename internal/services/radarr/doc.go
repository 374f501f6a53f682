// Package radarr queues missing movies for acquisition through the Radarr
// v3 API. Lookups prefer an IMDb id term, then TMDb, then a plain title
// search; the first candidate returned wins.
package radarr
