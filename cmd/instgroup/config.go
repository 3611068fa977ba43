// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/instgroup/instgroup/internal/config"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `instgroup config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect instgroup configuration",
		Long: `Inspect instgroup configuration.

Configuration is stored in:
  - Linux: ~/.config/instgroup/config.cue
  - macOS: ~/Library/Application Support/instgroup/config.cue
  - Windows: %APPDATA%\instgroup\config.cue

A config.cue in the current directory is used when none of these exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configPath)})
			if err != nil {
				return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(not set)")

	value := func(s string) string {
		if s == "" {
			return none
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("catalog"), value(cfg.Catalog.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("default_group"), value(cfg.DefaultGroup.String()))
	selectPacks := ""
	if cfg.SelectPacks != nil {
		selectPacks = strconv.FormatBool(*cfg.SelectPacks)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("select_packs"), value(selectPacks))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_level"), value(cfg.LogLevel.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("sort_keys"))
	if len(cfg.SortKeys) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, sk := range cfg.SortKeys {
		fmt.Fprintf(w, "  - %s: %s\n", sk.Group, valueStyle.Render(sk.Key))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("variables"))
	if len(cfg.Variables) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, v := range cfg.Variables {
		fmt.Fprintf(w, "  - %s=%s\n", v.Name, valueStyle.Render(v.Value))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
}
