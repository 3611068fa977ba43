// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/instgroup/instgroup/internal/issue"
	"github.com/instgroup/instgroup/pkg/groups"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Lint the catalog for missing dependencies and cycles",
		Long: `Lint the catalog for missing dependencies and cycles.

Missing dependencies are skipped and cycles are tolerated when groups are
resolved, so a catalog with findings still works. check exits with status 1
when it finds any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, app, flags)
		},
	}
}

func runCheck(cmd *cobra.Command, app *App, flags *rootFlags) error {
	sess, err := app.openSession(cmd.Context(), flags)
	if err != nil {
		return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	fmt.Fprintln(stdout, TitleStyle.Render("Catalog Check")+SubtitleStyle.Render(" ("+sess.catalogPath.String()+")"))
	fmt.Fprintf(stdout, "%s %d pack(s), %d group(s)\n", SuccessStyle.Render("✓"), sess.catalog.Len(), len(sess.catalog.Groups()))

	diags := groups.Check(sess.catalog)
	if len(diags) == 0 {
		fmt.Fprintln(stdout, SuccessStyle.Render("✓")+" No issues found")
		return nil
	}

	fmt.Fprintln(stderr)
	renderDiagnostics(stderr, diags)

	if sess.verbose {
		seen := make(map[issue.Id]bool)
		for _, d := range diags {
			id := diagnosticIssue(d)
			if id != 0 && !seen[id] {
				seen[id] = true
				renderGuide(stderr, id, glamourStyle(sess.cfg))
			}
		}
	}

	fmt.Fprintf(stderr, "\n%s Check failed with %d issue(s)\n", ErrorStyle.Render("✗"), len(diags))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure}
}

func diagnosticIssue(d groups.Diagnostic) issue.Id {
	switch d.Code {
	case groups.CodeMissingDependency:
		return issue.MissingDependencyId
	case groups.CodeDependencyCycle:
		return issue.DependencyCycleId
	default:
		return 0
	}
}
