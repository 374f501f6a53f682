package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shelfgap/internal/audit"
	"shelfgap/internal/notifications"
	"shelfgap/internal/reconcile"
	"shelfgap/internal/report"
	"shelfgap/internal/runstore"
	"shelfgap/internal/services/radarr"
	"shelfgap/internal/services/sonarr"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the library against the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			srcs, err := buildSources(cfg)
			if err != nil {
				return err
			}
			library, err := buildLibrary(cfg)
			if err != nil {
				return err
			}
			writer, err := report.NewWriter(cfg.Output.Dir, cfg.Output.WriteCSV, cfg.Output.WriteMarkdown)
			if err != nil {
				return err
			}
			store, err := runstore.Open(cfg.RunDatabasePath())
			if err != nil {
				return err
			}
			defer store.Close()

			runner := &audit.Runner{
				Library: library,
				Sources: srcs,
				Options: reconcile.Options{
					FuzzyThreshold: cfg.Matching.FuzzyThreshold,
					PreferIDs:      cfg.Matching.PreferIDs,
				},
				Reports:  writer,
				Store:    store,
				Notifier: notifications.NewService(cfg),
				Logger:   logger,
				LockPath: cfg.LockFilePath(),
				DryRun:   dryRun,
			}

			if cfg.Radarr.Enabled {
				client, err := radarr.New(cfg.Radarr.URL, cfg.Radarr.APIKey, radarr.Settings{
					QualityProfileID: cfg.Radarr.QualityProfileID,
					RootFolderPath:   cfg.Radarr.RootFolderPath,
					Monitored:        cfg.Radarr.Monitored,
					SearchOnAdd:      cfg.Radarr.SearchOnAdd,
				}, radarr.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("radarr client: %w", err)
				}
				runner.Movies = client
			}
			if cfg.Sonarr.Enabled {
				client, err := sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.APIKey, sonarr.Settings{
					QualityProfileID:  cfg.Sonarr.QualityProfileID,
					LanguageProfileID: cfg.Sonarr.LanguageProfileID,
					RootFolderPath:    cfg.Sonarr.RootFolderPath,
					Monitored:         cfg.Sonarr.Monitored,
					SearchOnAdd:       cfg.Sonarr.SearchOnAdd,
					SeriesType:        cfg.Sonarr.SeriesType,
				}, sonarr.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("sonarr client: %w", err)
				}
				runner.Shows = client
			}

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile and report without queueing acquisitions")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *audit.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Sources))
	for _, src := range summary.Sources {
		rows = append(rows, []string{
			src.Name,
			strconv.Itoa(src.PresentMovies),
			strconv.Itoa(src.MissingMovies),
			strconv.Itoa(src.PresentShows),
			strconv.Itoa(src.MissingShows),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source", "Movies OK", "Movies Missing", "Shows OK", "Shows Missing"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))

	fmt.Fprintf(out, "\nRun %s: %d present, %d missing (%s)\n",
		summary.RunID, summary.Present, summary.Missing, summary.Duration.Round(time.Millisecond))
	if queued := len(summary.QueuedMovies) + len(summary.QueuedShows); queued > 0 {
		fmt.Fprintf(out, "Queued %d movies and %d series for acquisition\n",
			len(summary.QueuedMovies), len(summary.QueuedShows))
	}
	for _, file := range summary.ReportFiles {
		fmt.Fprintf(out, "Wrote %s\n", file)
	}
}
