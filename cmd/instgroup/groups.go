// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/instgroup/instgroup/internal/issue"
	"github.com/instgroup/instgroup/pkg/catalog"
	"github.com/instgroup/instgroup/pkg/groups"
	"github.com/instgroup/instgroup/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

// newGroupsCommand creates the `instgroup groups` command tree.
func newGroupsCommand(app *App, flags *rootFlags) *cobra.Command {
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect and select install groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	complete := func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeGroups(cmd, app, flags)
	}

	groupsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List install groups sorted by sort key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupsList(cmd, app, flags)
		},
	})

	groupsCmd.AddCommand(&cobra.Command{
		Use:               "show <group>",
		Short:             "Show the packs an install group resolves to",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupsShow(cmd, app, flags, catalog.GroupName(args[0]))
		},
	})

	groupsCmd.AddCommand(&cobra.Command{
		Use:   "select [group]",
		Short: "Apply an install group to the catalog",
		Long: `Apply an install group to the catalog.

Packs outside the group are removed. The remaining packs are printed in
install order together with the session variables to set. Without an
argument the default group is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			var group catalog.GroupName
			if len(args) == 1 {
				group = catalog.GroupName(args[0])
			}
			return runGroupsSelect(cmd, app, flags, group)
		},
	})

	return groupsCmd
}

func runGroupsList(cmd *cobra.Command, app *App, flags *rootFlags) error {
	sess, err := app.openSession(cmd.Context(), flags)
	if err != nil {
		return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
	}

	collector := &groups.Collector{}
	sorted := groups.Sort(sess.resolver(collector).Resolve(sess.catalog))
	stdout := cmd.OutOrStdout()

	if len(sorted) == 0 {
		fmt.Fprintln(stdout, SubtitleStyle.Render(fmt.Sprintf("No install groups defined; all %d packs are installed.", sess.catalog.Len())))
		return nil
	}

	defaultIdx := defaultGroupIndex(cmd.ErrOrStderr(), sess, sorted)

	fmt.Fprintln(stdout, TitleStyle.Render("Install groups")+SubtitleStyle.Render(" ("+sess.catalogPath.String()+")"))
	fmt.Fprintln(stdout, groupTable(sorted, defaultIdx))

	renderDiagnostics(cmd.ErrOrStderr(), collector.Diagnostics())
	return nil
}

func runGroupsShow(cmd *cobra.Command, app *App, flags *rootFlags, group catalog.GroupName) error {
	sess, err := app.openSession(cmd.Context(), flags)
	if err != nil {
		return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
	}

	collector := &groups.Collector{}
	sel, err := sess.resolver(collector).ResolveGroup(sess.catalog, group)
	if err != nil {
		return failCommand(cmd, groupError(err, group), types.ExitUsage, sess.verbose, glamourStyle(sess.cfg))
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, TitleStyle.Render("Group "+sel.Group().String()))
	if sel.SortKey() != sel.Group().String() {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Sort key"), sel.SortKey())
	}
	fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Size"), sel.SizeString())
	fmt.Fprintf(stdout, "%s (%d):\n", CmdStyle.Render("Packs"), sel.Len())
	for _, name := range sel.PackNames() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}

	renderDiagnostics(cmd.ErrOrStderr(), collector.Diagnostics())
	return nil
}

func runGroupsSelect(cmd *cobra.Command, app *App, flags *rootFlags, group catalog.GroupName) error {
	sess, err := app.openSession(cmd.Context(), flags)
	if err != nil {
		return failCommand(cmd, err, types.ExitFailure, flags.verbose, glamourStyle(nil))
	}

	collector := &groups.Collector{}
	resolver := sess.resolver(collector)
	policy := sess.cfg.SelectionPolicy()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	var outcome groups.Outcome
	sorted := groups.Sort(resolver.Resolve(sess.catalog))
	switch {
	case len(sorted) == 0:
		if group != "" {
			err := issue.NewErrorContext().
				WithOperation("select group").
				WithResource(group.String()).
				WithIssue(issue.NoGroupsDefinedId).
				WithSuggestion("Run 'instgroup groups select' without a group to select every pack").
				Wrap(&groups.GroupNotFoundError{Group: group}).
				BuildError()
			return failCommand(cmd, err, types.ExitUsage, sess.verbose, glamourStyle(sess.cfg))
		}
		fmt.Fprintln(stdout, SubtitleStyle.Render("No install groups defined; selecting every pack."))
		outcome = groups.ApplyAll(sess.catalog, policy)
	case group == "":
		sel := sorted[defaultGroupIndex(stderr, sess, sorted)]
		outcome = groups.Apply(sess.catalog, sel, policy)
	default:
		sel, err := resolver.ResolveGroup(sess.catalog, group)
		if err != nil {
			return failCommand(cmd, groupError(err, group), types.ExitUsage, sess.verbose, glamourStyle(sess.cfg))
		}
		outcome = groups.Apply(sess.catalog, sel, policy)
	}

	if outcome.Group != "" {
		fmt.Fprintln(stdout, TitleStyle.Render("Installing group "+outcome.Group.String()))
	}
	writePackList(stdout, "Available packs", outcome.Available)
	writePackList(stdout, "Selected packs", outcome.Selected)
	for _, key := range slices.Sorted(maps.Keys(outcome.Variables)) {
		fmt.Fprintf(stdout, "%s=%s\n", key, outcome.Variables[key])
	}

	renderDiagnostics(stderr, append(collector.Diagnostics(), outcome.Diagnostics...))
	return nil
}

// defaultGroupIndex returns the index of the configured default group,
// falling back to the first group with a warning when it does not exist.
func defaultGroupIndex(stderr io.Writer, sess *session, sorted []*groups.Selection) int {
	name := sess.cfg.DefaultGroupName()
	idx := groups.DefaultIndex(sorted, name)
	if idx < 0 {
		fmt.Fprintf(stderr, "%s default group %q not found, using %q\n",
			WarningStyle.Render("Warning:"), name, sorted[0].Group())
		return 0
	}
	return idx
}

// groupError turns a resolver lookup failure into an actionable error.
func groupError(err error, group catalog.GroupName) error {
	errCtx := issue.NewErrorContext().
		WithOperation("resolve group").
		WithResource(group.String()).
		Wrap(err)

	var notFound *groups.GroupNotFoundError
	if errors.As(err, &notFound) {
		errCtx.WithIssue(issue.GroupNotFoundId)
		if len(notFound.Known) > 0 {
			known := make([]string, len(notFound.Known))
			for i, g := range notFound.Known {
				known[i] = g.String()
			}
			errCtx.WithSuggestion("Known groups: " + strings.Join(known, ", "))
		}
		errCtx.WithSuggestion("Run 'instgroup groups list' to see every group")
	}
	return errCtx.BuildError()
}

func groupTable(sorted []*groups.Selection, defaultIdx int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("", "GROUP", "SIZE", "PACKS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	for i, sel := range sorted {
		marker := ""
		if i == defaultIdx {
			marker = "*"
		}
		t.Row(marker, sel.Group().String(), sel.SizeString(), strconv.Itoa(sel.Len()))
	}
	return t.String()
}

func writePackList(w io.Writer, title string, packs []catalog.Pack) {
	fmt.Fprintf(w, "%s (%d):\n", CmdStyle.Render(title), len(packs))
	for _, p := range packs {
		line := fmt.Sprintf("  %-20s %s", p.Name, groups.FormatSize(p.Size.Bytes()))
		if p.Required {
			line += SubtitleStyle.Render(" (required)")
		}
		fmt.Fprintln(w, line)
	}
}

func completeGroups(cmd *cobra.Command, app *App, flags *rootFlags) ([]string, cobra.ShellCompDirective) {
	sess, err := app.openSession(cmd.Context(), flags)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0)
	for _, g := range sess.catalog.Groups() {
		names = append(names, g.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
