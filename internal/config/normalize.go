package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizePlex()
	c.normalizeSources()
	c.normalizeArr()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlex() {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if c.Plex.Token == "" {
		c.Plex.Token = strings.TrimSpace(os.Getenv("PLEX_TOKEN"))
	}
	c.Plex.MovieSections = trimEach(c.Plex.MovieSections)
	c.Plex.ShowSections = trimEach(c.Plex.ShowSections)
}

func (c *Config) normalizeSources() {
	c.Sources.TraktClientID = strings.TrimSpace(c.Sources.TraktClientID)
	if c.Sources.TraktClientID == "" {
		c.Sources.TraktClientID = strings.TrimSpace(os.Getenv("TRAKT_CLIENT_ID"))
	}
	for i := range c.Sources.TraktLists {
		list := &c.Sources.TraktLists[i]
		list.User = strings.TrimSpace(list.User)
		list.Slug = strings.TrimSpace(list.Slug)
		list.Type = strings.ToLower(strings.TrimSpace(list.Type))
		if list.Type == "" {
			list.Type = "mixed"
		}
	}
}

func (c *Config) normalizeArr() {
	c.Radarr.URL = strings.TrimRight(strings.TrimSpace(c.Radarr.URL), "/")
	c.Radarr.APIKey = strings.TrimSpace(c.Radarr.APIKey)
	if c.Radarr.APIKey == "" {
		c.Radarr.APIKey = strings.TrimSpace(os.Getenv("RADARR_API_KEY"))
	}
	c.Sonarr.URL = strings.TrimRight(strings.TrimSpace(c.Sonarr.URL), "/")
	c.Sonarr.APIKey = strings.TrimSpace(c.Sonarr.APIKey)
	if c.Sonarr.APIKey == "" {
		c.Sonarr.APIKey = strings.TrimSpace(os.Getenv("SONARR_API_KEY"))
	}
	if strings.TrimSpace(c.Sonarr.SeriesType) == "" {
		c.Sonarr.SeriesType = defaultSeriesType
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimEach(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
