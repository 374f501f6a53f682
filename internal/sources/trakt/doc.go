// Package trakt reads user lists through the Trakt v2 API.
//
// Lists are fetched page by page (100 items per page) with the standard
// trakt-api-version and trakt-api-key headers. A list may be declared as
// movies, shows, or mixed; mixed lists carry a per-item type that decides
// which sub-object holds the title metadata.
package trakt
