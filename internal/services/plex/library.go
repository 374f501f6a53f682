package plex

import (
	"context"
	"fmt"
	"strings"

	"shelfgap/internal/media"
)

// Library resolves configured section names and snapshots their contents.
type Library struct {
	client        *Client
	movieSections []string
	showSections  []string
}

// NewLibrary wires a server client with the configured section names.
func NewLibrary(client *Client, movieSections, showSections []string) *Library {
	return &Library{
		client:        client,
		movieSections: movieSections,
		showSections:  showSections,
	}
}

// Snapshot enumerates every configured section once and returns the movie
// and show records separately. Section names are matched case-insensitively;
// a configured name with no matching section is an error.
func (l *Library) Snapshot(ctx context.Context) (movies, shows []media.Record, err error) {
	sections, err := l.client.Sections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list sections: %w", err)
	}

	byTitle := make(map[string]Section, len(sections))
	for _, section := range sections {
		byTitle[strings.ToLower(section.Title)] = section
	}

	movies, err = l.gather(ctx, byTitle, l.movieSections, media.KindMovie)
	if err != nil {
		return nil, nil, err
	}
	shows, err = l.gather(ctx, byTitle, l.showSections, media.KindShow)
	if err != nil {
		return nil, nil, err
	}
	return movies, shows, nil
}

func (l *Library) gather(ctx context.Context, byTitle map[string]Section, names []string, kind media.Kind) ([]media.Record, error) {
	var records []media.Record
	for _, name := range names {
		section, ok := byTitle[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("library section %q not found on server", name)
		}
		items, err := l.client.SectionItems(ctx, section.Key)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		for _, item := range items {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			record := media.Record{
				Title:      item.Title,
				Year:       item.Year,
				Kind:       kind,
				LibraryKey: item.RatingKey,
			}
			extractIdentifiers(&record, item.GUIDs)
			records = append(records, record)
		}
	}
	return records, nil
}
