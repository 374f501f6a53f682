package main

import (
	"errors"
	"fmt"

	"shelfgap/internal/config"
	"shelfgap/internal/media"
	"shelfgap/internal/services/plex"
	"shelfgap/internal/sources"
	"shelfgap/internal/sources/imdb"
	"shelfgap/internal/sources/trakt"
)

// buildSources assembles the configured reference list providers.
func buildSources(cfg *config.Config) ([]sources.Source, error) {
	var list []sources.Source

	imdbClient := imdb.New()
	if cfg.Sources.IMDBTop250Movies {
		list = append(list, imdb.MovieSource(imdbClient))
	}
	if cfg.Sources.IMDBTop250TV {
		list = append(list, imdb.TVSource(imdbClient))
	}

	if len(cfg.Sources.TraktLists) > 0 {
		traktClient, err := trakt.New(cfg.Sources.TraktClientID)
		if err != nil {
			return nil, fmt.Errorf("trakt client: %w", err)
		}
		for _, l := range cfg.Sources.TraktLists {
			list = append(list, trakt.NewListSource(traktClient, l.User, l.Slug, trakt.ListType(l.Type)))
		}
	}

	if len(list) == 0 {
		return nil, errors.New("no sources enabled in configuration")
	}
	return list, nil
}

// buildLibrary connects the configured Plex server sections.
func buildLibrary(cfg *config.Config) (*plex.Library, error) {
	client, err := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, nil)
	if err != nil {
		return nil, err
	}
	return plex.NewLibrary(client, cfg.Plex.MovieSections, cfg.Plex.ShowSections), nil
}

func identifierOrBlank(record media.Record, ns media.Namespace) string {
	id, _ := record.ID(ns)
	return id
}
