// SPDX-License-Identifier: MPL-2.0

package groups

import "github.com/instgroup/instgroup/pkg/catalog"

// Check lints c: one diagnostic per dependency on a pack missing from the
// catalog, in catalog order, followed by one per dependency cycle.
func Check(c *catalog.Catalog) []Diagnostic {
	var diags []Diagnostic
	for _, p := range c.Packs() {
		for _, dep := range p.Dependencies {
			if !c.Contains(dep) {
				diags = append(diags, missingDependency("", p.Name, dep))
			}
		}
	}
	return append(diags, cycleDiagnostics(dependencyGraph(c))...)
}
