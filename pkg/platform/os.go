// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"slices"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	FreeBSD = "freebsd"
	OpenBSD = "openbsd"
	NetBSD  = "netbsd"
	Solaris = "solaris"
	AIX     = "aix"
)

// known mirrors the os enum of the catalog schema.
var known = []string{Linux, Darwin, Windows, FreeBSD, OpenBSD, NetBSD, Solaris, AIX}

// UnknownOSError is returned when a name is not a supported operating system.
type UnknownOSError struct {
	Name string
}

func (e *UnknownOSError) Error() string {
	return fmt.Sprintf("unknown operating system %q (expected one of: %s)", e.Name, strings.Join(known, ", "))
}

// Known returns the supported operating system names in catalog order.
func Known() []string {
	return slices.Clone(known)
}

// IsKnown reports whether goos is a supported operating system name.
func IsKnown(goos string) bool {
	return slices.Contains(known, goos)
}

// Validate returns an *UnknownOSError when goos is not supported.
func Validate(goos string) error {
	if !IsKnown(goos) {
		return &UnknownOSError{Name: goos}
	}
	return nil
}
