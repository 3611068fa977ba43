// SPDX-License-Identifier: MPL-2.0

package catalog

import "slices"

// Pack is one installable unit of the catalog.
type Pack struct {
	// Name is the unique lookup key.
	Name PackName
	// Size is the installed size in bytes.
	Size ByteSize
	// Membership lists the install groups of the pack.
	Membership Membership
	// Dependencies are the names of packs this pack requires, in declaration
	// order. Names absent from the catalog are tolerated.
	Dependencies []PackName
	// Description is free text shown in listings.
	Description string
	// Preselected marks packs that stay selected when a group is applied with
	// the preselected-only policy.
	Preselected bool
	// Required marks packs the user cannot deselect.
	Required bool
	// OS restricts the pack to the listed GOOS values; empty means every system.
	OS []string
}

// InGroup reports whether the pack belongs to group, directly or universally.
func (p Pack) InGroup(group GroupName) bool {
	return p.Membership.Includes(group)
}

// SupportsOS reports whether the pack may be installed on goos.
func (p Pack) SupportsOS(goos string) bool {
	return len(p.OS) == 0 || slices.Contains(p.OS, goos)
}

// clone returns a copy that shares no slices with p.
func (p Pack) clone() Pack {
	p.Dependencies = slices.Clone(p.Dependencies)
	p.OS = slices.Clone(p.OS)
	p.Membership.groups = slices.Clone(p.Membership.groups)
	return p
}
