package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shelfgap/internal/config"
)

func TestLoadDefaultsWithEnvFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PLEX_TOKEN", "env-token")
	t.Setenv("TRAKT_CLIENT_ID", "")

	path := filepath.Join(tempHome, "config.toml")
	writeConfig(t, path, `
[plex]
url = "http://plex.local:32400/"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing resolved config, got exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Plex.URL)
	}
	if cfg.Plex.Token != "env-token" {
		t.Fatalf("expected token from PLEX_TOKEN, got %q", cfg.Plex.Token)
	}
	if cfg.Matching.FuzzyThreshold != 90 || !cfg.Matching.PreferIDs {
		t.Fatalf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if !cfg.Sources.IMDBTop250Movies || !cfg.Sources.IMDBTop250TV {
		t.Fatalf("expected IMDb charts enabled by default: %+v", cfg.Sources)
	}
	wantOut := filepath.Join(tempHome, ".local", "share", "shelfgap", "out")
	if cfg.Output.Dir != wantOut {
		t.Fatalf("output dir = %q, want %q", cfg.Output.Dir, wantOut)
	}
	if cfg.Radarr.Enabled || cfg.Sonarr.Enabled || cfg.Notifications.Enabled {
		t.Fatal("expected integrations disabled by default")
	}
}

func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{
			"missing plex url",
			`[plex]
token = "tok"`,
			"plex.url",
		},
		{
			"missing plex token",
			`[plex]
url = "http://plex.local"`,
			"plex.token",
		},
		{
			"threshold out of range",
			`[plex]
url = "http://plex.local"
token = "tok"
[matching]
fuzzy_threshold = 101`,
			"fuzzy_threshold",
		},
		{
			"trakt list without client id",
			`[plex]
url = "http://plex.local"
token = "tok"
[[sources.trakt_lists]]
user = "someone"
slug = "essential-noir"
type = "movies"`,
			"trakt_client_id",
		},
		{
			"bad trakt list type",
			`[plex]
url = "http://plex.local"
token = "tok"
[sources]
trakt_client_id = "cid"
[[sources.trakt_lists]]
user = "someone"
slug = "essential-noir"
type = "albums"`,
			"movies, shows, or mixed",
		},
		{
			"no sources",
			`[plex]
url = "http://plex.local"
token = "tok"
[sources]
imdb_top250_movies = false
imdb_top250_tv = false`,
			"no reference sources",
		},
		{
			"radarr enabled without api key",
			`[plex]
url = "http://plex.local"
token = "tok"
[radarr]
enabled = true
url = "http://radarr.local"
root_folder_path = "/movies"
quality_profile_id = 1`,
			"radarr.api_key",
		},
		{
			"bad log format",
			`[plex]
url = "http://plex.local"
token = "tok"
[logging]
format = "yaml"`,
			"logging.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempHome := t.TempDir()
			t.Setenv("HOME", tempHome)
			t.Setenv("PLEX_TOKEN", "")
			t.Setenv("RADARR_API_KEY", "")

			path := filepath.Join(tempHome, "config.toml")
			writeConfig(t, path, tt.toml)

			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PLEX_TOKEN", "tok")

	_, _, exists, err := config.Load("")
	if exists {
		t.Fatal("expected no config file in temp HOME")
	}
	// Defaults alone fail validation: plex.url cannot be defaulted.
	if err == nil || !strings.Contains(err.Error(), "plex.url") {
		t.Fatalf("expected plex.url error, got %v", err)
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Matching.FuzzyThreshold != 90 {
		t.Fatalf("sample fuzzy_threshold = %d, want 90", cfg.Matching.FuzzyThreshold)
	}
	if len(cfg.Plex.MovieSections) != 1 || cfg.Plex.MovieSections[0] != "Movies" {
		t.Fatalf("sample movie_sections = %+v", cfg.Plex.MovieSections)
	}
}

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
