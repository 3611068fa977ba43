// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicatePack is the sentinel error wrapped by DuplicatePackError.
var ErrDuplicatePack = errors.New("duplicate pack")

type (
	// DuplicatePackError is returned when two packs share a name.
	DuplicatePackError struct {
		Name PackName
	}

	// InvalidPackError is returned by New when a pack fails validation.
	// It collects every field error of that pack.
	InvalidPackError struct {
		Index       int
		Name        PackName
		FieldErrors []error
	}

	// Catalog is an ordered, immutable set of packs indexed by name.
	// Accessors return copies so callers cannot mutate the catalog.
	Catalog struct {
		packs []Pack
		index map[PackName]int
	}
)

// Error implements the error interface.
func (e *DuplicatePackError) Error() string {
	return fmt.Sprintf("duplicate pack %q", e.Name)
}

// Unwrap returns ErrDuplicatePack for errors.Is() compatibility.
func (e *DuplicatePackError) Unwrap() error { return ErrDuplicatePack }

// Error implements the error interface.
func (e *InvalidPackError) Error() string {
	return fmt.Sprintf("packs[%d] %q: %v", e.Index, e.Name, errors.Join(e.FieldErrors...))
}

// Unwrap returns the field errors for errors.Is()/errors.As() traversal.
func (e *InvalidPackError) Unwrap() []error { return e.FieldErrors }

// New builds a catalog from packs, keeping their order. Pack names must be
// valid and unique, and explicit group names must be valid. Dependencies are
// not checked: a reference to an absent pack is a resolver diagnostic.
func New(packs ...Pack) (*Catalog, error) {
	c := &Catalog{
		packs: make([]Pack, 0, len(packs)),
		index: make(map[PackName]int, len(packs)),
	}

	for i, p := range packs {
		var fieldErrs []error
		if err := p.Name.Validate(); err != nil {
			fieldErrs = append(fieldErrs, err)
		}
		for _, g := range p.Membership.groups {
			if err := g.Validate(); err != nil {
				fieldErrs = append(fieldErrs, err)
			}
		}
		for _, dep := range p.Dependencies {
			if err := dep.Validate(); err != nil {
				fieldErrs = append(fieldErrs, fmt.Errorf("dependency: %w", err))
			}
		}
		if len(fieldErrs) > 0 {
			return nil, &InvalidPackError{Index: i, Name: p.Name, FieldErrors: fieldErrs}
		}

		if _, exists := c.index[p.Name]; exists {
			return nil, &DuplicatePackError{Name: p.Name}
		}
		c.index[p.Name] = len(c.packs)
		c.packs = append(c.packs, p.clone())
	}

	return c, nil
}

// MustNew is New for fixed catalogs in tests and examples; it panics on error.
func MustNew(packs ...Pack) *Catalog {
	c, err := New(packs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of packs.
func (c *Catalog) Len() int { return len(c.packs) }

// Packs returns copies of all packs in catalog order.
func (c *Catalog) Packs() []Pack {
	out := make([]Pack, len(c.packs))
	for i, p := range c.packs {
		out[i] = p.clone()
	}
	return out
}

// Names returns the pack names in catalog order.
func (c *Catalog) Names() []PackName {
	out := make([]PackName, len(c.packs))
	for i, p := range c.packs {
		out[i] = p.Name
	}
	return out
}

// Lookup returns a copy of the named pack.
func (c *Catalog) Lookup(name PackName) (Pack, bool) {
	i, ok := c.index[name]
	if !ok {
		return Pack{}, false
	}
	return c.packs[i].clone(), true
}

// Contains reports whether the catalog has a pack with the given name.
func (c *Catalog) Contains(name PackName) bool {
	_, ok := c.index[name]
	return ok
}

// Groups returns every group named by an explicit membership, sorted.
// Universal packs contribute no group names.
func (c *Catalog) Groups() []GroupName {
	seen := make(map[GroupName]bool)
	var out []GroupName
	for _, p := range c.packs {
		for _, g := range p.Membership.groups {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Filter returns a new catalog with the packs for which keep returns true,
// in catalog order.
func (c *Catalog) Filter(keep func(Pack) bool) *Catalog {
	out := &Catalog{index: make(map[PackName]int)}
	for _, p := range c.packs {
		if keep(p.clone()) {
			out.index[p.Name] = len(out.packs)
			out.packs = append(out.packs, p.clone())
		}
	}
	return out
}

// Available returns the packs whose OS constraints match goos.
func (c *Catalog) Available(goos string) *Catalog {
	return c.Filter(func(p Pack) bool { return p.SupportsOS(goos) })
}
