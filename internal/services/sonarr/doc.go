// Package sonarr queues missing series for acquisition through the Sonarr
// v3 API. Lookups prefer a TVDB id term, then IMDb, then a plain title
// search; the first candidate returned wins.
package sonarr
