package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfgap/internal/media"
	"shelfgap/internal/sources"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources [name]",
		Short: "List configured sources or fetch one and show its titles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			srcs, err := buildSources(cfg)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				rows := make([][]string, 0, len(srcs))
				for _, src := range srcs {
					rows = append(rows, []string{src.Name()})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Source"},
					rows,
					[]columnAlignment{alignLeft},
				))
				return nil
			}

			src, err := findSource(srcs, args[0])
			if err != nil {
				return err
			}
			records, err := src.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch %s: %w", src.Name(), err)
			}

			rows := make([][]string, 0, len(records))
			for i, record := range records {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					record.Title,
					record.Year,
					record.Kind.String(),
					identifierOrBlank(record, media.NamespaceIMDb),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Year", "Kind", "IMDb"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "\n%d titles from %s\n", len(records), src.Name())
			return nil
		},
	}
}

func findSource(srcs []sources.Source, name string) (sources.Source, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, src := range srcs {
		if strings.ToLower(src.Name()) == want {
			return src, nil
		}
	}
	var partial sources.Source
	for _, src := range srcs {
		if strings.Contains(strings.ToLower(src.Name()), want) {
			if partial != nil {
				return nil, fmt.Errorf("source name %q is ambiguous", name)
			}
			partial = src
		}
	}
	if partial == nil {
		return nil, fmt.Errorf("source %q not found; run \"shelfgap sources\" to list them", name)
	}
	return partial, nil
}
