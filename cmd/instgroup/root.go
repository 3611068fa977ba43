// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/instgroup/instgroup/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "instgroup",
		Short: "Resolve the install groups of a pack catalog",
		Long: TitleStyle.Render("instgroup") + SubtitleStyle.Render(" - install group resolver for pack catalogs") + `

instgroup reads a catalog of installable packs and computes, for every
install group, the packs it installs: the members of the group, the packs
shared by all groups, and everything they depend on.

` + SubtitleStyle.Render("Examples:") + `
  instgroup groups list             List groups with their sizes
  instgroup groups show full        Show the packs of the 'full' group
  instgroup groups select minimal   Select the packs of the 'minimal' group
  instgroup check                   Lint the catalog dependencies`,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.catalog, "catalog", "f", "", "catalog file (default is ./install.cue or the config 'catalog' key)")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/instgroup/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.goos, "os", runtime.GOOS, "operating system used to filter OS-specific packs")

	rootCmd.AddCommand(
		newGroupsCommand(app, flags),
		newCheckCommand(app, flags),
		newConfigCommand(app, flags),
	)

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code of the failed command, if any.
// It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(int(types.ExitFailure))
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
