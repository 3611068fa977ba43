// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/instgroup/instgroup/pkg/catalog"

	"github.com/charmbracelet/log"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("clean catalog", func(t *testing.T) {
		t.Parallel()

		c := catalog.MustNew(pack("core", 1, nil), pack("docs", 1, in("full"), "core"))
		if diags := Check(c); len(diags) != 0 {
			t.Errorf("Check() = %v, want none", diags)
		}
	})

	t.Run("missing references and cycles", func(t *testing.T) {
		t.Parallel()

		c := catalog.MustNew(
			pack("a", 1, in("g"), "b", "ghost"),
			pack("b", 1, nil, "a"),
			pack("c", 1, nil, "phantom"),
		)
		diags := Check(c)
		if len(diags) != 3 {
			t.Fatalf("Check() = %v, want 3 diagnostics", diags)
		}

		codes := []string{diags[0].Code, diags[1].Code, diags[2].Code}
		if !slices.Equal(codes, []string{CodeMissingDependency, CodeMissingDependency, CodeDependencyCycle}) {
			t.Errorf("codes = %v", codes)
		}
		if diags[0].Dependency != "ghost" || diags[1].Dependency != "phantom" {
			t.Errorf("missing = %q, %q", diags[0].Dependency, diags[1].Dependency)
		}
		if diags[2].Group != "" || !strings.Contains(diags[2].Message, "a -> b -> a") {
			t.Errorf("cycle diagnostic = %+v", diags[2])
		}
	})
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := missingDependency("full", "app", "ghost")
	want := `warning [missing_dependency] pack "app" depends on "ghost", which is not in the catalog (group full)`
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	d.Group = ""
	if strings.Contains(d.String(), "group") {
		t.Errorf("String() without group = %q", d.String())
	}
}

func TestLogTracer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	collector := &Collector{}
	tracer := MultiTracer(LogTracer(logger), nil, collector)

	c := catalog.MustNew(pack("app", 1, in("full"), "lib", "ghost"), pack("lib", 1, nil))
	NewResolver(WithTracer(tracer)).Resolve(c)

	out := buf.String()
	for _, want := range []string{"pack added", "dependency added", "via=app", "missing_dependency"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if len(collector.Diagnostics()) != 1 {
		t.Errorf("collector got %v, want one diagnostic", collector.Diagnostics())
	}
}

func TestLogTracer_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	NewResolver(WithTracer(LogTracer(logger))).Resolve(catalog.MustNew(pack("app", 1, in("full"))))

	if buf.Len() != 0 {
		t.Errorf("expected no output at warn level, got %q", buf.String())
	}
}
