// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"strings"
)

const (
	// MembershipUniversal marks a pack that belongs to every install group.
	MembershipUniversal MembershipKind = iota
	// MembershipExplicit marks a pack that belongs only to its listed groups.
	MembershipExplicit
)

type (
	// MembershipKind distinguishes universal from explicit group membership.
	MembershipKind int

	// Membership records which install groups a pack belongs to.
	//
	// The zero value is universal. An explicit membership always lists at
	// least one group; "no groups computed yet" is not representable.
	Membership struct {
		kind   MembershipKind
		groups []GroupName
	}
)

// String returns "universal" or "explicit".
func (k MembershipKind) String() string {
	if k == MembershipExplicit {
		return "explicit"
	}
	return "universal"
}

// Universal returns a membership that includes every group.
func Universal() Membership {
	return Membership{kind: MembershipUniversal}
}

// InGroups returns an explicit membership over the given groups. Duplicates
// are folded and the groups are kept sorted. With no groups the result is
// Universal, matching how install definitions omit the groups field.
func InGroups(groups ...GroupName) Membership {
	if len(groups) == 0 {
		return Universal()
	}
	sorted := slices.Clone(groups)
	slices.Sort(sorted)
	return Membership{kind: MembershipExplicit, groups: slices.Compact(sorted)}
}

// Kind returns the membership kind.
func (m Membership) Kind() MembershipKind { return m.kind }

// IsUniversal reports whether the pack belongs to every group.
func (m Membership) IsUniversal() bool { return m.kind == MembershipUniversal }

// Includes reports whether a pack with this membership belongs to group.
func (m Membership) Includes(group GroupName) bool {
	if m.IsUniversal() {
		return true
	}
	_, found := slices.BinarySearch(m.groups, group)
	return found
}

// Groups returns a copy of the explicit groups in sorted order; nil when universal.
func (m Membership) Groups() []GroupName {
	return slices.Clone(m.groups)
}

// String renders the membership for listings, e.g. "*" or "full,minimal".
func (m Membership) String() string {
	if m.IsUniversal() {
		return "*"
	}
	parts := make([]string, len(m.groups))
	for i, g := range m.groups {
		parts[i] = string(g)
	}
	return strings.Join(parts, ",")
}
