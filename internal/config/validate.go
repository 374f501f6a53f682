package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateRadarr(); err != nil {
		return err
	}
	if err := c.validateSonarr(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if strings.TrimSpace(c.Plex.URL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/shelfgap/config.toml"
		}
		return fmt.Errorf("plex.url is required. Edit %s (create with 'shelfgap config init')", defaultPath)
	}
	if strings.TrimSpace(c.Plex.Token) == "" {
		return errors.New("plex.token is required. Set PLEX_TOKEN env var or edit the config file")
	}
	if len(c.Plex.MovieSections) == 0 && len(c.Plex.ShowSections) == 0 {
		return errors.New("plex.movie_sections or plex.show_sections must name at least one library section")
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources.TraktLists) > 0 && c.Sources.TraktClientID == "" {
		return errors.New("sources.trakt_client_id must be set when trakt lists are configured (or set TRAKT_CLIENT_ID)")
	}
	for _, list := range c.Sources.TraktLists {
		if list.User == "" || list.Slug == "" {
			return errors.New("sources.trakt_lists entries require both user and slug")
		}
		switch list.Type {
		case "movies", "shows", "mixed":
		default:
			return fmt.Errorf("sources.trakt_lists type %q must be movies, shows, or mixed", list.Type)
		}
	}
	if !c.Sources.IMDBTop250Movies && !c.Sources.IMDBTop250TV && len(c.Sources.TraktLists) == 0 {
		return errors.New("no reference sources enabled; nothing to audit")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 100 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateRadarr() error {
	if !c.Radarr.Enabled {
		return nil
	}
	if c.Radarr.URL == "" {
		return errors.New("radarr.url must be set when radarr.enabled is true")
	}
	if c.Radarr.APIKey == "" {
		return errors.New("radarr.api_key must be set when radarr.enabled is true (or set RADARR_API_KEY)")
	}
	if strings.TrimSpace(c.Radarr.RootFolderPath) == "" {
		return errors.New("radarr.root_folder_path must be set when radarr.enabled is true")
	}
	if c.Radarr.QualityProfileID <= 0 {
		return errors.New("radarr.quality_profile_id must be positive when radarr.enabled is true")
	}
	return nil
}

func (c *Config) validateSonarr() error {
	if !c.Sonarr.Enabled {
		return nil
	}
	if c.Sonarr.URL == "" {
		return errors.New("sonarr.url must be set when sonarr.enabled is true")
	}
	if c.Sonarr.APIKey == "" {
		return errors.New("sonarr.api_key must be set when sonarr.enabled is true (or set SONARR_API_KEY)")
	}
	if strings.TrimSpace(c.Sonarr.RootFolderPath) == "" {
		return errors.New("sonarr.root_folder_path must be set when sonarr.enabled is true")
	}
	if c.Sonarr.QualityProfileID <= 0 {
		return errors.New("sonarr.quality_profile_id must be positive when sonarr.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.Enabled && strings.TrimSpace(c.Notifications.NtfyTopic) == "" {
		return errors.New("notifications.ntfy_topic must be set when notifications.enabled is true")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}
