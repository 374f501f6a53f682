package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Plex contains connection settings for the Plex server whose library is
// audited.
type Plex struct {
	URL           string   `toml:"url"`
	Token         string   `toml:"token"`
	MovieSections []string `toml:"movie_sections"`
	ShowSections  []string `toml:"show_sections"`
}

// TraktList identifies a single user-curated Trakt list to audit against.
type TraktList struct {
	User string `toml:"user"`
	Slug string `toml:"slug"`
	Type string `toml:"type"` // movies | shows | mixed
}

// Sources selects which reference lists an audit fetches.
type Sources struct {
	IMDBTop250Movies bool        `toml:"imdb_top250_movies"`
	IMDBTop250TV     bool        `toml:"imdb_top250_tv"`
	TraktClientID    string      `toml:"trakt_client_id"`
	TraktLists       []TraktList `toml:"trakt_lists"`
}

// Matching contains the reconciliation policy knobs.
type Matching struct {
	FuzzyThreshold int  `toml:"fuzzy_threshold"`
	PreferIDs      bool `toml:"prefer_ids"`
}

// Output controls where and in which formats reports are written.
type Output struct {
	Dir           string `toml:"dir"`
	WriteCSV      bool   `toml:"write_csv"`
	WriteMarkdown bool   `toml:"write_markdown"`
}

// Radarr contains settings for queueing missing movies.
type Radarr struct {
	Enabled          bool   `toml:"enabled"`
	URL              string `toml:"url"`
	APIKey           string `toml:"api_key"`
	QualityProfileID int    `toml:"quality_profile_id"`
	RootFolderPath   string `toml:"root_folder_path"`
	Monitored        bool   `toml:"monitored"`
	SearchOnAdd      bool   `toml:"search_on_add"`
}

// Sonarr contains settings for queueing missing series.
type Sonarr struct {
	Enabled           bool   `toml:"enabled"`
	URL               string `toml:"url"`
	APIKey            string `toml:"api_key"`
	QualityProfileID  int    `toml:"quality_profile_id"`
	LanguageProfileID int    `toml:"language_profile_id"`
	RootFolderPath    string `toml:"root_folder_path"`
	Monitored         bool   `toml:"monitored"`
	SearchOnAdd       bool   `toml:"search_on_add"`
	SeriesType        string `toml:"series_type"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	Enabled        bool   `toml:"enabled"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Shelfgap.
//
// Configuration sections by subsystem:
//   - Plex: server connection and which sections form the library snapshot
//   - Sources: IMDb charts and Trakt lists to audit against
//   - Matching: fuzzy threshold and identifier preference
//   - Output: report directory and formats
//   - Radarr/Sonarr: optional acquisition of missing titles
//   - Notifications: ntfy push on completed audits
//   - Logging: log format and level
type Config struct {
	Plex          Plex          `toml:"plex"`
	Sources       Sources       `toml:"sources"`
	Matching      Matching      `toml:"matching"`
	Output        Output        `toml:"output"`
	Radarr        Radarr        `toml:"radarr"`
	Sonarr        Sonarr        `toml:"sonarr"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfgap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shelfgap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directory used for reports, the run
// database, and the run lock.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir not set")
	}
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", c.Output.Dir, err)
	}
	return nil
}

// RunDatabasePath returns the location of the audit history database.
func (c *Config) RunDatabasePath() string {
	return filepath.Join(c.Output.Dir, "runs.db")
}

// LockFilePath returns the audit run lock location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Output.Dir, ".audit.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
