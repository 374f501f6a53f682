package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shelfgap/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Plex URL", cfg.Plex.URL},
				{"Plex token", maskSecret(cfg.Plex.Token)},
				{"Movie sections", strings.Join(cfg.Plex.MovieSections, ", ")},
				{"Show sections", strings.Join(cfg.Plex.ShowSections, ", ")},
				{"IMDb Top 250 movies", yesNo(cfg.Sources.IMDBTop250Movies)},
				{"IMDb Top 250 TV", yesNo(cfg.Sources.IMDBTop250TV)},
				{"Trakt client id", maskSecret(cfg.Sources.TraktClientID)},
				{"Trakt lists", formatTraktLists(cfg.Sources.TraktLists)},
				{"Fuzzy threshold", fmt.Sprintf("%d", cfg.Matching.FuzzyThreshold)},
				{"Prefer identifiers", yesNo(cfg.Matching.PreferIDs)},
				{"Output directory", cfg.Output.Dir},
				{"Write CSV", yesNo(cfg.Output.WriteCSV)},
				{"Write markdown", yesNo(cfg.Output.WriteMarkdown)},
				{"Radarr", yesNo(cfg.Radarr.Enabled)},
				{"Sonarr", yesNo(cfg.Sonarr.Enabled)},
				{"Notifications", yesNo(cfg.Notifications.Enabled)},
				{"Log level", cfg.Logging.Level},
				{"Log format", cfg.Logging.Format},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the Plex URL and token before running an audit.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func formatTraktLists(lists []config.TraktList) string {
	if len(lists) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(lists))
	for _, l := range lists {
		parts = append(parts, fmt.Sprintf("%s/%s", l.User, l.Slug))
	}
	return strings.Join(parts, ", ")
}
