// SPDX-License-Identifier: MPL-2.0

package groups

import (
	"cmp"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/instgroup/instgroup/pkg/catalog"
)

const (
	// InstallGroupVariable is the session variable set to the applied group name.
	InstallGroupVariable = "INSTALL_GROUP"
	// SortKeyVariablePrefix prefixes the session variable holding a group's sort key.
	SortKeyVariablePrefix = "InstallationGroupPanel.sortKey."
	// DefaultGroupVariable names the group preselected when nothing else is chosen.
	DefaultGroupVariable = "InstallationGroupPanel.defaultGroup"
	// SelectPacksVariable set to "no" applies groups with the preselected-only policy.
	SelectPacksVariable = "InstallationGroupPanel.selectPacks"
)

// SortKeys maps group names to the keys used to order them. Groups without
// an entry sort by their own name.
type SortKeys map[catalog.GroupName]string

// SortKeysFromVariables extracts the SortKeyVariablePrefix entries of a
// session variable table.
func SortKeysFromVariables(vars map[string]string) SortKeys {
	keys := make(SortKeys)
	for name, value := range vars {
		if group, ok := strings.CutPrefix(name, SortKeyVariablePrefix); ok && group != "" {
			keys[catalog.GroupName(group)] = value
		}
	}
	return keys
}

// Merge returns a copy of k overlaid with the entries of other.
func (k SortKeys) Merge(other SortKeys) SortKeys {
	out := maps.Clone(k)
	if out == nil {
		out = make(SortKeys, len(other))
	}
	maps.Copy(out, other)
	return out
}

// Key returns the sort key of group. Keys are stored URL-encoded in install
// definitions; a key that does not decode is used verbatim.
func (k SortKeys) Key(group catalog.GroupName) string {
	raw, ok := k[group]
	if !ok {
		return string(group)
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Sort returns the selections ordered by sort key, then by group name so
// that groups with equal keys have a deterministic order.
func Sort(selections map[catalog.GroupName]*Selection) []*Selection {
	out := slices.Collect(maps.Values(selections))
	slices.SortFunc(out, func(a, b *Selection) int {
		return cmp.Or(
			strings.Compare(a.sortKey, b.sortKey),
			strings.Compare(string(a.group), string(b.group)),
		)
	})
	return out
}

// DefaultIndex returns the position of defaultGroup in sorted. An empty
// defaultGroup selects the first row; a group that is not listed yields -1.
func DefaultIndex(sorted []*Selection, defaultGroup catalog.GroupName) int {
	if len(sorted) == 0 {
		return -1
	}
	if defaultGroup == "" {
		return 0
	}
	return slices.IndexFunc(sorted, func(s *Selection) bool { return s.group == defaultGroup })
}
