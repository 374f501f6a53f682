// Package sources defines the provider contract for reference title lists.
//
// A source yields the records a library is audited against. Concrete
// providers live in subpackages: imdb scrapes the public Top 250 charts,
// trakt reads user lists through the Trakt v2 API.
package sources
