// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "resolve groups"},
			want: "failed to resolve groups",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load catalog", Resource: "install.cue"},
			want: "failed to load catalog: install.cue",
		},
		{
			name: "with resource and cause",
			err:  &ActionableError{Operation: "load catalog", Resource: "install.cue", Cause: fs.ErrNotExist},
			want: "failed to load catalog: install.cue: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	err := WrapWithContext(fmt.Errorf("open: %w", fs.ErrNotExist), "load catalog", "install.cue")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see through ActionableError")
	}

	var ae *ActionableError
	if !errors.As(fmt.Errorf("outer: %w", err), &ae) || ae.Resource != "install.cue" {
		t.Errorf("errors.As failed: %v", ae)
	}

	if WrapWithContext(nil, "load catalog", "install.cue") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("read install.cue: %w", fs.ErrPermission)
	err := NewErrorContext().
		WithOperation("load catalog").
		WithResource("install.cue").
		WithSuggestion("Check the file permissions").
		WithSuggestion("Pass --catalog to use another file").
		Wrap(cause).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "\n  • Check the file permissions") ||
		!strings.Contains(short, "\n  • Pass --catalog to use another file") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. read install.cue: permission denied", "2. permission denied"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return a nil error")
	}

	err := NewErrorContext().WithOperation("select group").WithIssue(GroupNotFoundId).Build()
	if err.Issue != GroupNotFoundId {
		t.Errorf("Issue = %d, want %d", err.Issue, GroupNotFoundId)
	}
	if guide := err.Guide(); guide == nil || guide.Id() != GroupNotFoundId {
		t.Errorf("Guide() = %v", guide)
	}
	if (&ActionableError{Operation: "x"}).Guide() != nil {
		t.Error("Guide() without an issue should be nil")
	}
}
