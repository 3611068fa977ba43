// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/instgroup/instgroup/internal/config"
	"github.com/instgroup/instgroup/pkg/catalog"
	"github.com/instgroup/instgroup/pkg/types"
)

type (
	stubConfigProvider struct {
		cfg *config.Config
		err error
	}

	stubCatalogLoader struct {
		catalog *catalog.Catalog
		loaded  []types.FilesystemPath
	}
)

func (s *stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	return s.cfg, nil
}

func (s *stubCatalogLoader) Load(_ context.Context, path types.FilesystemPath) (*catalog.Catalog, error) {
	s.loaded = append(s.loaded, path)
	return s.catalog, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	extra := catalog.Pack{Name: "extra", Size: 1048576, Membership: catalog.InGroups("full"), Dependencies: []catalog.PackName{"docs"}}
	c, err := catalog.New(
		catalog.Pack{Name: "core", Size: 100, Membership: catalog.Universal(), Preselected: true, Required: true},
		catalog.Pack{Name: "docs", Size: 2048, Membership: catalog.InGroups("full"), Dependencies: []catalog.PackName{"core"}, Preselected: true},
		extra,
		catalog.Pack{Name: "tiny", Size: 10, Membership: catalog.InGroups("minimal"), Preselected: true},
		catalog.Pack{Name: "win-tools", Size: 5, Membership: catalog.InGroups("full"), Preselected: true, OS: []string{"windows"}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, deps Dependencies, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := newRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func catalogDeps(t *testing.T, cfg *config.Config) Dependencies {
	t.Helper()
	return Dependencies{
		Config:   &stubConfigProvider{cfg: cfg},
		Catalogs: &stubCatalogLoader{catalog: testCatalog(t)},
	}
}

func TestGroupsList(t *testing.T) {
	t.Parallel()

	res := runCLI(t, catalogDeps(t, nil), "groups", "list", "--os", "linux")
	if res.err != nil {
		t.Fatalf("groups list error = %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{"Install groups", "install.cue", "full", "1 MB", "minimal", "110 bytes", "*"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Index(res.stdout, "full") > strings.Index(res.stdout, "minimal") {
		t.Errorf("groups should be sorted by name:\n%s", res.stdout)
	}
}

func TestGroupsList_NoGroups(t *testing.T) {
	t.Parallel()

	deps := Dependencies{
		Config:   &stubConfigProvider{},
		Catalogs: &stubCatalogLoader{catalog: catalog.MustNew(catalog.Pack{Name: "core", Membership: catalog.Universal()})},
	}
	res := runCLI(t, deps, "groups", "list")
	if res.err != nil {
		t.Fatalf("groups list error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "No install groups defined; all 1 packs are installed.") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestGroupsShow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		goos     string
		wantPack []string
		noPack   string
	}{
		{name: "linux drops windows packs", goos: "linux", wantPack: []string{"core", "docs", "extra"}, noPack: "win-tools"},
		{name: "windows keeps them", goos: "windows", wantPack: []string{"core", "docs", "extra", "win-tools"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, catalogDeps(t, nil), "groups", "show", "full", "--os", tt.goos)
			if res.err != nil {
				t.Fatalf("groups show error = %v\n%s", res.err, res.stderr)
			}
			for _, want := range tt.wantPack {
				if !strings.Contains(res.stdout, "  "+want+"\n") {
					t.Errorf("stdout missing pack %q:\n%s", want, res.stdout)
				}
			}
			if tt.noPack != "" && strings.Contains(res.stdout, tt.noPack) {
				t.Errorf("stdout should not list %q:\n%s", tt.noPack, res.stdout)
			}
			if !strings.Contains(res.stdout, "Size: 1 MB") {
				t.Errorf("stdout missing size:\n%s", res.stdout)
			}
		})
	}
}

func TestGroupsShow_UnknownGroup(t *testing.T) {
	t.Parallel()

	res := runCLI(t, catalogDeps(t, nil), "groups", "show", "nope", "--os", "linux")
	if code := exitCode(t, res.err); code != types.ExitUsage {
		t.Errorf("exit code = %d, want %d", code, types.ExitUsage)
	}
	for _, want := range []string{"failed to resolve group: nope", "Known groups: full, minimal"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestGroupsSelect(t *testing.T) {
	t.Parallel()

	res := runCLI(t, catalogDeps(t, nil), "groups", "select", "minimal", "--os", "linux")
	if res.err != nil {
		t.Fatalf("groups select error = %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{"Installing group minimal", "Available packs (2)", "Selected packs (2)", "INSTALL_GROUP=minimal"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "docs") {
		t.Errorf("minimal must not include docs:\n%s", res.stdout)
	}
}

func TestGroupsSelect_PreselectedOnly(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	selectPacks := false
	cfg.SelectPacks = &selectPacks

	res := runCLI(t, catalogDeps(t, cfg), "groups", "select", "full", "--os", "linux")
	if res.err != nil {
		t.Fatalf("groups select error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "Available packs (3)") || !strings.Contains(res.stdout, "Selected packs (2)") {
		t.Errorf("unexpected selection:\n%s", res.stdout)
	}

	// Install order puts dependencies first.
	core := strings.Index(res.stdout, "core")
	docs := strings.Index(res.stdout, "docs")
	extra := strings.Index(res.stdout, "extra")
	if core < 0 || core > docs || docs > extra {
		t.Errorf("packs not in install order:\n%s", res.stdout)
	}
}

func TestGroupsSelect_DefaultGroup(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Variables = []config.VariableEntry{{Name: "InstallationGroupPanel.defaultGroup", Value: "minimal"}}

	res := runCLI(t, catalogDeps(t, cfg), "groups", "select")
	if res.err != nil {
		t.Fatalf("groups select error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "INSTALL_GROUP=minimal") {
		t.Errorf("default group not applied:\n%s", res.stdout)
	}

	cfg = config.DefaultConfig()
	cfg.DefaultGroup = "ghost"
	res = runCLI(t, catalogDeps(t, cfg), "groups", "select")
	if res.err != nil {
		t.Fatalf("groups select error = %v", res.err)
	}
	if !strings.Contains(res.stderr, `default group "ghost" not found, using "full"`) {
		t.Errorf("stderr = %q", res.stderr)
	}
	if !strings.Contains(res.stdout, "INSTALL_GROUP=full") {
		t.Errorf("first group not applied:\n%s", res.stdout)
	}
}

func TestGroupsList_SortKeysFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SortKeys = []config.SortKeyEntry{{Group: "minimal", Key: "1"}, {Group: "full", Key: "2"}}

	res := runCLI(t, catalogDeps(t, cfg), "groups", "list")
	if res.err != nil {
		t.Fatalf("groups list error = %v", res.err)
	}
	if strings.Index(res.stdout, "minimal") > strings.Index(res.stdout, "full") {
		t.Errorf("sort keys should put minimal first:\n%s", res.stdout)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	res := runCLI(t, catalogDeps(t, nil), "check")
	if res.err != nil {
		t.Fatalf("check error = %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "No issues found") {
		t.Errorf("stdout = %q", res.stdout)
	}

	broken := catalog.MustNew(
		catalog.Pack{Name: "a", Membership: catalog.InGroups("g"), Dependencies: []catalog.PackName{"b", "ghost"}},
		catalog.Pack{Name: "b", Membership: catalog.Universal(), Dependencies: []catalog.PackName{"a"}},
	)
	res = runCLI(t, Dependencies{Config: &stubConfigProvider{}, Catalogs: &stubCatalogLoader{catalog: broken}}, "check")
	if code := exitCode(t, res.err); code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, types.ExitFailure)
	}
	for _, want := range []string{"[missing_dependency]", "[dependency_cycle]", "a -> b -> a", "Check failed with 2 issue(s)"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestCatalogLoadFailure(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent.cue")
	res := runCLI(t, Dependencies{Config: &stubConfigProvider{}}, "groups", "list", "--catalog", missing)
	if code := exitCode(t, res.err); code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, types.ExitFailure)
	}
	for _, want := range []string{"failed to load catalog", missing, "Pass --catalog"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestUnknownOS(t *testing.T) {
	t.Parallel()

	loader := &stubCatalogLoader{catalog: testCatalog(t)}
	res := runCLI(t, Dependencies{Config: &stubConfigProvider{}, Catalogs: loader}, "groups", "list", "--os", "plan9")
	if code := exitCode(t, res.err); code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, types.ExitFailure)
	}
	if !strings.Contains(res.stderr, `unknown operating system "plan9"`) {
		t.Errorf("stderr missing OS error:\n%s", res.stderr)
	}
	if len(loader.loaded) != 0 {
		t.Errorf("catalog should not be loaded for an unknown OS, loaded %v", loader.loaded)
	}
}

func TestCatalogPathResolution(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Catalog = "from-config.toml"

	loader := &stubCatalogLoader{catalog: testCatalog(t)}
	runCLI(t, Dependencies{Config: &stubConfigProvider{cfg: cfg}, Catalogs: loader}, "groups", "list")
	runCLI(t, Dependencies{Config: &stubConfigProvider{cfg: cfg}, Catalogs: loader}, "groups", "list", "-f", "flag.yaml")

	want := []types.FilesystemPath{"from-config.toml", "flag.yaml"}
	if len(loader.loaded) != 2 || loader.loaded[0] != want[0] || loader.loaded[1] != want[1] {
		t.Errorf("loaded = %v, want %v", loader.loaded, want)
	}
}

func TestConfigFallback(t *testing.T) {
	t.Parallel()

	broken := &stubConfigProvider{err: errors.New("bad syntax")}

	res := runCLI(t, Dependencies{Config: broken, Catalogs: &stubCatalogLoader{catalog: testCatalog(t)}}, "groups", "list")
	if res.err != nil {
		t.Fatalf("implicit config errors should fall back to defaults: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Warning: bad syntax") {
		t.Errorf("stderr = %q", res.stderr)
	}

	res = runCLI(t, Dependencies{Config: broken, Catalogs: &stubCatalogLoader{catalog: testCatalog(t)}}, "groups", "list", "--config", "x.cue")
	if code := exitCode(t, res.err); code != types.ExitFailure {
		t.Errorf("explicit config errors should fail, got exit code %d", code)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.DefaultGroup = "full"
	deps := Dependencies{Config: &stubConfigProvider{cfg: cfg}}

	res := runCLI(t, deps, "config", "dump")
	if res.err != nil || !strings.Contains(res.stdout, `default_group: "full"`) || !strings.Contains(res.stdout, `log_level: "warn"`) {
		t.Errorf("config dump = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, deps, "config", "show")
	if res.err != nil || !strings.Contains(res.stdout, "default_group: full") || !strings.Contains(res.stdout, "(using defaults)") {
		t.Errorf("config show = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, deps, "config", "path", "--config", "/etc/instgroup.cue")
	if res.err != nil || !strings.Contains(res.stdout, "Config file: /etc/instgroup.cue") {
		t.Errorf("config path = %q, %v", res.stdout, res.err)
	}
}
