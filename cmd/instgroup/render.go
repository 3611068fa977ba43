// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/instgroup/instgroup/internal/issue"
	"github.com/instgroup/instgroup/pkg/groups"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/spf13/cobra"
)

// formatErrorForDisplay formats an error for user display. Actionable errors
// include their suggestions, and in verbose mode the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// failCommand renders err on stderr and returns the ExitError for RunE.
// In verbose mode the linked issue guide is rendered below the message.
func failCommand(cmd *cobra.Command, err error, code types.ExitCode, verbose bool, style string) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		renderGuide(stderr, ae.Issue, style)
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: code, Err: err}
}

// renderGuide prints the glamour-rendered issue catalog entry for id.
func renderGuide(w io.Writer, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render help: "+err.Error())
		return
	}
	fmt.Fprint(w, rendered)
}

// renderDiagnostics writes a numbered diagnostic list to w.
func renderDiagnostics(w io.Writer, diags []groups.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	fmt.Fprintf(w, "%s %d diagnostic issue(s) found:\n", WarningStyle.Render("!"), len(diags))
	for i, d := range diags {
		codeTag := codeTagStyle.Render(fmt.Sprintf("[%s]", d.Code))
		line := d.Message
		if d.Group != "" {
			line += SubtitleStyle.Render(fmt.Sprintf(" (group %s)", d.Group))
		}
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, codeTag, line)
	}
}
