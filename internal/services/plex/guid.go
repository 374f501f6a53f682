package plex

import (
	"regexp"
	"strings"

	"shelfgap/internal/media"
)

var (
	imdbIDPattern = regexp.MustCompile(`(tt\d+)`)
	tmdbIDPattern = regexp.MustCompile(`(?:themoviedb|tmdb)://(\d+)`)
	tvdbIDPattern = regexp.MustCompile(`(?:thetvdb|tvdb)://(\d+)`)
)

// extractIdentifiers mines namespace ids out of item GUID URIs. Both the
// modern provider form (imdb://tt0111161) and legacy agent URIs
// (com.plexapp.agents.imdb://tt0111161?lang=en) are recognized; unmatched
// URIs such as plex://movie/... are ignored.
func extractIdentifiers(record *media.Record, guids []string) {
	for _, uri := range guids {
		if strings.Contains(uri, "imdb://") || strings.Contains(uri, "/title/tt") {
			if m := imdbIDPattern.FindStringSubmatch(uri); m != nil {
				record.SetIdentifier(media.NamespaceIMDb, m[1])
			}
		}
		if m := tmdbIDPattern.FindStringSubmatch(uri); m != nil {
			record.SetIdentifier(media.NamespaceTMDb, m[1])
		}
		if m := tvdbIDPattern.FindStringSubmatch(uri); m != nil {
			record.SetIdentifier(media.NamespaceTVDB, m[1])
		}
	}
}
