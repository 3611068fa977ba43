// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos    string
		wantErr bool
	}{
		{Linux, false},
		{Darwin, false},
		{Windows, false},
		{AIX, false},
		{"plan9", true},
		{"", true},
		{"Linux", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.goos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.goos, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var osErr *UnknownOSError
			if !errors.As(err, &osErr) || osErr.Name != tt.goos {
				t.Errorf("expected *UnknownOSError for %q, got %v", tt.goos, err)
			}
			if !strings.Contains(err.Error(), "linux, darwin, windows") {
				t.Errorf("error should list known systems, got %q", err.Error())
			}
		})
	}
}

func TestKnown_ReturnsCopy(t *testing.T) {
	t.Parallel()
	k := Known()
	k[0] = "mutated"
	if !IsKnown(Linux) || Known()[0] != Linux {
		t.Error("Known() must not expose the internal slice")
	}
}
