// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPackName is the sentinel error wrapped by InvalidPackNameError.
	ErrInvalidPackName = errors.New("invalid pack name")
	// ErrInvalidGroupName is the sentinel error wrapped by InvalidGroupNameError.
	ErrInvalidGroupName = errors.New("invalid group name")
)

type (
	// PackName is the unique identifier of a pack within a catalog.
	PackName string

	// InvalidPackNameError is returned when a PackName is empty or whitespace-only.
	InvalidPackNameError struct {
		Value PackName
	}

	// GroupName identifies an install group such as "minimal" or "full".
	GroupName string

	// InvalidGroupNameError is returned when a GroupName is empty or whitespace-only.
	InvalidGroupNameError struct {
		Value GroupName
	}

	// ByteSize is an installed size in bytes. Negative values are an authoring
	// defect of the source data and are carried as-is.
	ByteSize int64
)

// String returns the pack name.
func (n PackName) String() string { return string(n) }

// Validate returns an error if the name is empty or whitespace-only.
func (n PackName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidPackNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPackNameError) Error() string {
	return fmt.Sprintf("invalid pack name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidPackName for errors.Is() compatibility.
func (e *InvalidPackNameError) Unwrap() error { return ErrInvalidPackName }

// String returns the group name.
func (g GroupName) String() string { return string(g) }

// Validate returns an error if the name is empty or whitespace-only.
func (g GroupName) Validate() error {
	if strings.TrimSpace(string(g)) == "" {
		return &InvalidGroupNameError{Value: g}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidGroupNameError) Error() string {
	return fmt.Sprintf("invalid group name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidGroupName for errors.Is() compatibility.
func (e *InvalidGroupNameError) Unwrap() error { return ErrInvalidGroupName }

// Bytes returns the size as a plain int64.
func (s ByteSize) Bytes() int64 { return int64(s) }
