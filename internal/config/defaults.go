package config

const (
	defaultOutputDir      = "~/.local/share/shelfgap/out"
	defaultFuzzyThreshold = 90
	defaultNotifyTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultSeriesType     = "standard"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			MovieSections: []string{"Movies"},
			ShowSections:  []string{"TV Shows"},
		},
		Sources: Sources{
			IMDBTop250Movies: true,
			IMDBTop250TV:     true,
		},
		Matching: Matching{
			FuzzyThreshold: defaultFuzzyThreshold,
			PreferIDs:      true,
		},
		Output: Output{
			Dir:           defaultOutputDir,
			WriteCSV:      true,
			WriteMarkdown: true,
		},
		Radarr: Radarr{
			Monitored:   true,
			SearchOnAdd: true,
		},
		Sonarr: Sonarr{
			Monitored:   true,
			SearchOnAdd: true,
			SeriesType:  defaultSeriesType,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
