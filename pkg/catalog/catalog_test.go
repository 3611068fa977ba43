// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"slices"
	"testing"
)

func TestMembership(t *testing.T) {
	t.Parallel()

	universal := Universal()
	if !universal.IsUniversal() || !universal.Includes("anything") {
		t.Error("Universal() must include every group")
	}
	if universal.Groups() != nil {
		t.Errorf("Universal().Groups() = %v, want nil", universal.Groups())
	}
	if universal.String() != "*" {
		t.Errorf("Universal().String() = %q, want %q", universal.String(), "*")
	}

	var zero Membership
	if !zero.IsUniversal() {
		t.Error("zero Membership must be universal")
	}

	explicit := InGroups("minimal", "full", "full")
	if explicit.Kind() != MembershipExplicit {
		t.Fatalf("Kind() = %v, want explicit", explicit.Kind())
	}
	if !slices.Equal(explicit.Groups(), []GroupName{"full", "minimal"}) {
		t.Errorf("Groups() = %v, want [full minimal]", explicit.Groups())
	}
	if !explicit.Includes("full") || explicit.Includes("dev") {
		t.Error("explicit membership must include only listed groups")
	}
	if explicit.String() != "full,minimal" {
		t.Errorf("String() = %q, want %q", explicit.String(), "full,minimal")
	}

	if !InGroups().IsUniversal() {
		t.Error("InGroups() with no groups must be universal")
	}
}

func TestNew_RejectsInvalidPacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		packs    []Pack
		sentinel error
	}{
		{
			name:     "empty name",
			packs:    []Pack{{Name: ""}},
			sentinel: ErrInvalidPackName,
		},
		{
			name:     "whitespace name",
			packs:    []Pack{{Name: "  "}},
			sentinel: ErrInvalidPackName,
		},
		{
			name:     "blank group",
			packs:    []Pack{{Name: "core", Membership: InGroups(" ")}},
			sentinel: ErrInvalidGroupName,
		},
		{
			name:     "blank dependency",
			packs:    []Pack{{Name: "core", Dependencies: []PackName{""}}},
			sentinel: ErrInvalidPackName,
		},
		{
			name:     "duplicate",
			packs:    []Pack{{Name: "core"}, {Name: "core"}},
			sentinel: ErrDuplicatePack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.packs...)
			if err == nil {
				t.Fatal("New() should fail")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v should wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestNew_AllowsMissingDependencies(t *testing.T) {
	t.Parallel()

	c, err := New(Pack{Name: "core", Dependencies: []PackName{"ghost"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Contains("ghost") {
		t.Error("missing dependency must not be added to the catalog")
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	t.Parallel()

	deps := []PackName{"core"}
	c := MustNew(Pack{Name: "core"}, Pack{Name: "docs", Dependencies: deps})

	deps[0] = "mutated"
	p, ok := c.Lookup("docs")
	if !ok {
		t.Fatal("Lookup(docs) not found")
	}
	if p.Dependencies[0] != "core" {
		t.Errorf("catalog shares the caller's slice: got %v", p.Dependencies)
	}

	p.Dependencies[0] = "mutated"
	again, _ := c.Lookup("docs")
	if again.Dependencies[0] != "core" {
		t.Errorf("Lookup result shares catalog storage: got %v", again.Dependencies)
	}

	packs := c.Packs()
	packs[1].Dependencies[0] = "mutated"
	again, _ = c.Lookup("docs")
	if again.Dependencies[0] != "core" {
		t.Errorf("Packs() result shares catalog storage: got %v", again.Dependencies)
	}
}

func TestCatalog_Accessors(t *testing.T) {
	t.Parallel()

	c := MustNew(
		Pack{Name: "core"},
		Pack{Name: "docs", Membership: InGroups("full")},
		Pack{Name: "lite", Membership: InGroups("minimal", "full")},
	)

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if !slices.Equal(c.Names(), []PackName{"core", "docs", "lite"}) {
		t.Errorf("Names() = %v", c.Names())
	}
	if !slices.Equal(c.Groups(), []GroupName{"full", "minimal"}) {
		t.Errorf("Groups() = %v, want [full minimal]", c.Groups())
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestCatalog_Available(t *testing.T) {
	t.Parallel()

	c := MustNew(
		Pack{Name: "core"},
		Pack{Name: "win-shortcuts", OS: []string{"windows"}},
		Pack{Name: "posix-links", OS: []string{"linux", "darwin"}},
	)

	linux := c.Available("linux")
	if !slices.Equal(linux.Names(), []PackName{"core", "posix-links"}) {
		t.Errorf("Available(linux) = %v", linux.Names())
	}
	windows := c.Available("windows")
	if !slices.Equal(windows.Names(), []PackName{"core", "win-shortcuts"}) {
		t.Errorf("Available(windows) = %v", windows.Names())
	}
	if c.Len() != 3 {
		t.Error("Available must not modify the source catalog")
	}
	if _, ok := linux.Lookup("posix-links"); !ok {
		t.Error("filtered catalog must keep a working index")
	}
}
