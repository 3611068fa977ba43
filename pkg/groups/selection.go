// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/instgroup/instgroup/pkg/catalog"
)

// Selection is the resolved content of one install group: the names of the
// packs to install and their cumulative size.
type Selection struct {
	group   catalog.GroupName
	sortKey string
	packs   map[catalog.PackName]struct{}
	size    catalog.ByteSize
}

// newSelection returns an empty accumulator for group.
func newSelection(group catalog.GroupName, sortKey string) *Selection {
	return &Selection{
		group:   group,
		sortKey: sortKey,
		packs:   make(map[catalog.PackName]struct{}),
	}
}

// add records a pack once. It reports false when the pack was already present.
func (s *Selection) add(p catalog.Pack) bool {
	if _, ok := s.packs[p.Name]; ok {
		return false
	}
	s.packs[p.Name] = struct{}{}
	s.size += p.Size
	return true
}

// Group returns the group name.
func (s *Selection) Group() catalog.GroupName { return s.group }

// SortKey returns the key used to order this group among others.
func (s *Selection) SortKey() string { return s.sortKey }

// Contains reports whether the named pack is part of the selection.
func (s *Selection) Contains(name catalog.PackName) bool {
	_, ok := s.packs[name]
	return ok
}

// Len returns the number of packs.
func (s *Selection) Len() int { return len(s.packs) }

// PackNames returns the pack names in lexical order.
func (s *Selection) PackNames() []catalog.PackName {
	return slices.Sorted(maps.Keys(s.packs))
}

// Size returns the summed size of the packs, each counted once.
func (s *Selection) Size() catalog.ByteSize { return s.size }

// SizeString returns Size rendered with FormatSize.
func (s *Selection) SizeString() string { return FormatSize(s.size.Bytes()) }

// String renders the selection for trace output.
func (s *Selection) String() string {
	names := s.PackNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return fmt.Sprintf("Selection(%s){sortKey=%s, size=%d, sizeString=%s, packs=[%s]}",
		s.group, s.sortKey, s.size, s.SizeString(), strings.Join(parts, ", "))
}
