// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"errors"
	"fmt"
	"slices"

	"github.com/instgroup/instgroup/pkg/catalog"
)

// ErrGroupNotFound is the sentinel error wrapped by GroupNotFoundError.
var ErrGroupNotFound = errors.New("group not found")

type (
	// GroupNotFoundError is returned when a requested group is not named by
	// any pack of the catalog.
	GroupNotFoundError struct {
		Group catalog.GroupName
		// Known lists the groups the catalog does define, sorted.
		Known []catalog.GroupName
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver computes group selections. It holds configuration only and may
	// be shared; every call builds fresh accumulators.
	Resolver struct {
		tracer   Tracer
		sortKeys SortKeys
	}
)

// Error implements the error interface.
func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("install group %q not found (known groups: %v)", e.Group, e.Known)
}

// Unwrap returns ErrGroupNotFound for errors.Is() compatibility.
func (e *GroupNotFoundError) Unwrap() error { return ErrGroupNotFound }

// WithTracer sets the Tracer that receives trace events and diagnostics.
func WithTracer(t Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithSortKeys sets the sort keys attached to resolved selections.
func WithSortKeys(keys SortKeys) Option {
	return func(r *Resolver) {
		r.sortKeys = keys
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{tracer: nopTracer{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveGroups resolves every group of c with default options.
func ResolveGroups(c *catalog.Catalog) map[catalog.GroupName]*Selection {
	return NewResolver().Resolve(c)
}

// Resolve returns one selection per group named in c. A catalog without
// explicit group memberships yields an empty map; callers then treat every
// pack as selected.
func (r *Resolver) Resolve(c *catalog.Catalog) map[catalog.GroupName]*Selection {
	names := c.Groups()
	out := make(map[catalog.GroupName]*Selection, len(names))
	for _, group := range names {
		out[group] = r.resolve(c, group)
	}
	return out
}

// ResolveGroup resolves a single group. It fails only when the group is not
// named in c.
func (r *Resolver) ResolveGroup(c *catalog.Catalog, group catalog.GroupName) (*Selection, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	known := c.Groups()
	if !slices.Contains(known, group) {
		return nil, &GroupNotFoundError{Group: group, Known: known}
	}
	return r.resolve(c, group), nil
}

func (r *Resolver) resolve(c *catalog.Catalog, group catalog.GroupName) *Selection {
	acc := newSelection(group, r.sortKeys.Key(group))
	for _, p := range c.Packs() {
		if !p.InGroup(group) || acc.Contains(p.Name) {
			continue
		}
		r.addWithDependencies(c, p, "", acc, nil)
	}
	return acc
}

// addWithDependencies adds p to acc and then every dependency of p that is
// not yet in acc. path is the chain of packs that led to p; a dependency
// already on it closes a cycle.
func (r *Resolver) addWithDependencies(c *catalog.Catalog, p catalog.Pack, via catalog.PackName, acc *Selection, path []catalog.PackName) {
	if !acc.add(p) {
		return
	}
	r.tracer.PackAdded(acc.group, p.Name, via)

	path = append(path, p.Name)
	for _, dep := range p.Dependencies {
		if acc.Contains(dep) {
			if i := slices.Index(path, dep); i >= 0 {
				cycle := append(slices.Clone(path[i:]), dep)
				r.tracer.Report(dependencyCycle(acc.group, p.Name, dep, cycle))
			}
			continue
		}

		depPack, ok := c.Lookup(dep)
		if !ok {
			r.tracer.Report(missingDependency(acc.group, p.Name, dep))
			continue
		}
		r.addWithDependencies(c, depPack, p.Name, acc, path)
	}
}
