// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/instgroup/instgroup/pkg/catalog"

	"github.com/charmbracelet/log"
)

const (
	// SeverityWarning marks a finding that leaves the resolution usable.
	SeverityWarning Severity = "warning"
	// SeverityError marks a finding that makes the result incomplete.
	SeverityError Severity = "error"

	// CodeMissingDependency is reported when a pack depends on a name that is
	// not in the catalog. The dependency is skipped.
	CodeMissingDependency = "missing_dependency"
	// CodeDependencyCycle is reported when a dependency leads back to a pack
	// on the current traversal path.
	CodeDependencyCycle = "dependency_cycle"
)

type (
	// Severity is the level of a Diagnostic.
	Severity string

	// Diagnostic is a non-fatal finding produced while resolving or checking
	// a catalog. It is returned to the caller rather than printed.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as CodeMissingDependency.
		Code    string
		Message string
		// Group is the group being resolved; empty for whole-catalog checks.
		Group catalog.GroupName
		// Pack is the pack that declares the offending dependency.
		Pack catalog.PackName
		// Dependency is the referenced pack name.
		Dependency catalog.PackName
		// Cycle lists the packs of a dependency cycle, when known.
		Cycle []catalog.PackName
	}

	// Tracer observes a resolution. PackAdded is called for every pack added
	// to a group, with via set to the pack whose dependency pulled it in (empty
	// for direct members). Report receives every diagnostic.
	//
	// A Tracer shared between concurrent resolutions must be safe for
	// concurrent use.
	Tracer interface {
		PackAdded(group catalog.GroupName, pack, via catalog.PackName)
		Report(d Diagnostic)
	}

	// Collector is a Tracer that keeps diagnostics in arrival order.
	Collector struct {
		mu          sync.Mutex
		diagnostics []Diagnostic
	}

	logTracer struct {
		logger *log.Logger
	}

	multiTracer []Tracer

	nopTracer struct{}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Severity))
	b.WriteString(" [")
	b.WriteString(d.Code)
	b.WriteString("] ")
	b.WriteString(d.Message)
	if d.Group != "" {
		fmt.Fprintf(&b, " (group %s)", d.Group)
	}
	return b.String()
}

func missingDependency(group catalog.GroupName, pack, dep catalog.PackName) Diagnostic {
	return Diagnostic{
		Severity:   SeverityWarning,
		Code:       CodeMissingDependency,
		Message:    fmt.Sprintf("pack %q depends on %q, which is not in the catalog", pack, dep),
		Group:      group,
		Pack:       pack,
		Dependency: dep,
	}
}

func dependencyCycle(group catalog.GroupName, pack, dep catalog.PackName, cycle []catalog.PackName) Diagnostic {
	names := make([]string, len(cycle))
	for i, n := range cycle {
		names[i] = string(n)
	}
	return Diagnostic{
		Severity:   SeverityWarning,
		Code:       CodeDependencyCycle,
		Message:    fmt.Sprintf("dependency cycle: %s", strings.Join(names, " -> ")),
		Group:      group,
		Pack:       pack,
		Dependency: dep,
		Cycle:      slices.Clone(cycle),
	}
}

// PackAdded implements Tracer; the collector ignores trace events.
func (c *Collector) PackAdded(catalog.GroupName, catalog.PackName, catalog.PackName) {}

// Report implements Tracer.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diagnostics)
}

// LogTracer returns a Tracer that logs trace events at debug level and
// diagnostics at warn level.
func LogTracer(logger *log.Logger) Tracer {
	return &logTracer{logger: logger}
}

func (t *logTracer) PackAdded(group catalog.GroupName, pack, via catalog.PackName) {
	if via == "" {
		t.logger.Debug("pack added", "group", group, "pack", pack)
		return
	}
	t.logger.Debug("dependency added", "group", group, "pack", pack, "via", via)
}

func (t *logTracer) Report(d Diagnostic) {
	kv := []any{"code", d.Code}
	if d.Group != "" {
		kv = append(kv, "group", d.Group)
	}
	if d.Severity == SeverityError {
		t.logger.Error(d.Message, kv...)
		return
	}
	t.logger.Warn(d.Message, kv...)
}

// MultiTracer fans events out to every non-nil tracer.
func MultiTracer(tracers ...Tracer) Tracer {
	var out multiTracer
	for _, t := range tracers {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (m multiTracer) PackAdded(group catalog.GroupName, pack, via catalog.PackName) {
	for _, t := range m {
		t.PackAdded(group, pack, via)
	}
}

func (m multiTracer) Report(d Diagnostic) {
	for _, t := range m {
		t.Report(d)
	}
}

func (nopTracer) PackAdded(catalog.GroupName, catalog.PackName, catalog.PackName) {}

func (nopTracer) Report(Diagnostic) {}
