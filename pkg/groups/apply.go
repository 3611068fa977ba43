// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"errors"

	"github.com/instgroup/instgroup/internal/dag"
	"github.com/instgroup/instgroup/pkg/catalog"
)

type (
	// Policy controls which available packs start out selected once a group
	// is applied.
	Policy struct {
		// SelectAll selects every pack of the group. When false only
		// preselected and required packs are selected.
		SelectAll bool
	}

	// Outcome is the catalog narrowed to one applied group.
	Outcome struct {
		Group catalog.GroupName
		// Available lists the packs of the group in install order.
		Available []catalog.Pack
		// Selected lists the packs selected under the policy, in install order.
		Selected []catalog.Pack
		// Variables holds the session variables to set, such as INSTALL_GROUP.
		Variables map[string]string
		// Diagnostics reports why install order fell back to catalog order.
		Diagnostics []Diagnostic
	}
)

// DefaultPolicy selects every pack of the applied group.
func DefaultPolicy() Policy {
	return Policy{SelectAll: true}
}

// PolicyFromVariables reads SelectPacksVariable: "no" selects only
// preselected packs, anything else selects all.
func PolicyFromVariables(vars map[string]string) Policy {
	return Policy{SelectAll: vars[SelectPacksVariable] != "no"}
}

// Apply removes every pack of c that is not part of sel and selects the
// remaining ones according to policy.
func Apply(c *catalog.Catalog, sel *Selection, policy Policy) Outcome {
	available := c.Filter(func(p catalog.Pack) bool { return sel.Contains(p.Name) })
	order, diags := InstallOrder(available)

	out := Outcome{
		Group:       sel.Group(),
		Variables:   map[string]string{InstallGroupVariable: string(sel.Group())},
		Diagnostics: diags,
	}
	out.fill(available, order, policy)
	return out
}

// ApplyAll is Apply for catalogs without install groups: every pack is
// available and no INSTALL_GROUP variable is set.
func ApplyAll(c *catalog.Catalog, policy Policy) Outcome {
	order, diags := InstallOrder(c)
	out := Outcome{Variables: map[string]string{}, Diagnostics: diags}
	out.fill(c, order, policy)
	return out
}

func (o *Outcome) fill(c *catalog.Catalog, order []catalog.PackName, policy Policy) {
	for _, name := range order {
		p, _ := c.Lookup(name)
		o.Available = append(o.Available, p)
		if policy.SelectAll || p.Preselected || p.Required {
			o.Selected = append(o.Selected, p)
		}
	}
}

// InstallOrder orders the packs of c so that each pack follows the packs it
// depends on. Dependencies outside c are ignored. When the dependencies form
// a cycle the catalog order is returned together with one diagnostic per cycle.
func InstallOrder(c *catalog.Catalog) ([]catalog.PackName, []Diagnostic) {
	g := dependencyGraph(c)

	sorted, err := g.TopologicalSort()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return c.Names(), cycleDiagnostics(g)
	}

	out := make([]catalog.PackName, len(sorted))
	for i, name := range sorted {
		out[i] = catalog.PackName(name)
	}
	return out, nil
}

// dependencyGraph links every dependency to its dependent, for dependencies
// present in c.
func dependencyGraph(c *catalog.Catalog) *dag.Graph {
	g := dag.New()
	for _, p := range c.Packs() {
		g.AddNode(string(p.Name))
		for _, dep := range p.Dependencies {
			if c.Contains(dep) {
				g.AddEdge(string(dep), string(p.Name))
			}
		}
	}
	return g
}

func cycleDiagnostics(g *dag.Graph) []Diagnostic {
	var diags []Diagnostic
	for _, cycle := range g.Cycles() {
		names := make([]catalog.PackName, len(cycle))
		for i, n := range cycle {
			names[i] = catalog.PackName(n)
		}
		diags = append(diags, dependencyCycle("", names[0], "", append(names, names[0])))
	}
	return diags
}

