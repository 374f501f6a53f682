package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfgap/internal/media"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "Summarize the configured Plex library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			library, err := buildLibrary(cfg)
			if err != nil {
				return err
			}

			movies, shows, err := library.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Movies", strconv.Itoa(len(movies)), strconv.Itoa(countWithID(movies)), strconv.Itoa(countWithYear(movies))},
				{"Shows", strconv.Itoa(len(shows)), strconv.Itoa(countWithID(shows)), strconv.Itoa(countWithYear(shows))},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Items", "With IDs", "With Year"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "\n%d library items total\n", len(movies)+len(shows))
			return nil
		},
	}
}

func countWithID(records []media.Record) int {
	count := 0
	for _, record := range records {
		if len(record.Identifiers) > 0 {
			count++
		}
	}
	return count
}

func countWithYear(records []media.Record) int {
	count := 0
	for _, record := range records {
		if record.HasYear() {
			count++
		}
	}
	return count
}
