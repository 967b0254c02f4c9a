package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotebookError(t *testing.T) {
	inner := errors.New("boom")
	err := WrapNotebookError("examples/demo.ipynb", inner)

	if err == nil {
		t.Fatal("expected non-nil error")
	}

	if !strings.Contains(err.Error(), "examples/demo.ipynb") {
		t.Errorf("expected path in message, got %q", err.Error())
	}

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find wrapped error")
	}

	var nbErr *NotebookError
	if !errors.As(err, &nbErr) {
		t.Fatal("expected errors.As to find NotebookError")
	}
	if nbErr.Path != "examples/demo.ipynb" {
		t.Errorf("expected path %q, got %q", "examples/demo.ipynb", nbErr.Path)
	}
}

func TestWrapNotebookError_Nil(t *testing.T) {
	if err := WrapNotebookError("a.ipynb", nil); err != nil {
		t.Errorf("expected nil for nil inner error, got %v", err)
	}
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{
			name:    "timeout sentinel",
			err:     ErrTimeout,
			checker: IsTimeout,
			want:    true,
		},
		{
			name:    "wrapped timeout",
			err:     fmt.Errorf("notebook run: %w", ErrTimeout),
			checker: IsTimeout,
			want:    true,
		},
		{
			name:    "cell failure",
			err:     WrapNotebookError("x.ipynb", ErrCellFailed),
			checker: IsCellFailure,
			want:    true,
		},
		{
			name:    "kernel startup",
			err:     fmt.Errorf("spawn: %w", ErrKernelStartup),
			checker: IsKernelStartup,
			want:    true,
		},
		{
			name:    "malformed",
			err:     fmt.Errorf("parse: %w", ErrMalformed),
			checker: IsMalformed,
			want:    true,
		},
		{
			name:    "unrelated error",
			err:     errors.New("something else"),
			checker: IsTimeout,
			want:    false,
		},
		{
			name:    "nil error",
			err:     nil,
			checker: IsCancelled,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("classifier returned %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiError(t *testing.T) {
	m := &MultiError{}

	if m.ErrorOrNil() != nil {
		t.Error("empty MultiError should return nil")
	}

	m.Add(nil)
	if m.ErrorOrNil() != nil {
		t.Error("adding nil should not create an error")
	}

	err1 := errors.New("first")
	err2 := errors.New("second")
	m.Add(err1)
	m.Add(err2)

	combined := m.ErrorOrNil()
	if combined == nil {
		t.Fatal("expected non-nil combined error")
	}

	msg := combined.Error()
	if !strings.Contains(msg, "2 errors occurred") {
		t.Errorf("expected error count in message, got %q", msg)
	}
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Errorf("expected both errors in message, got %q", msg)
	}
}

func TestMultiError_SingleError(t *testing.T) {
	inner := errors.New("only one")
	m := NewMultiError([]error{inner})

	if m.Error() != "only one" {
		t.Errorf("single error should not be wrapped in a count, got %q", m.Error())
	}
}

func TestMultiError_Truncation(t *testing.T) {
	m := &MultiError{}
	for i := 0; i < 15; i++ {
		m.Add(fmt.Errorf("error %d", i))
	}

	msg := m.Error()
	if !strings.Contains(msg, "... and 5 more errors") {
		t.Errorf("expected truncation notice, got %q", msg)
	}
}

func TestCombineErrors(t *testing.T) {
	if err := CombineErrors(nil, nil); err != nil {
		t.Errorf("expected nil for all-nil input, got %v", err)
	}

	err := CombineErrors(nil, errors.New("x"), nil)
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	if err.Error() != "x" {
		t.Errorf("expected %q, got %q", "x", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("timeout", -1, "must be positive")

	msg := err.Error()
	if !strings.Contains(msg, "timeout") || !strings.Contains(msg, "must be positive") {
		t.Errorf("expected field and message, got %q", msg)
	}
	if !strings.Contains(msg, "-1") {
		t.Errorf("expected value in message, got %q", msg)
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: "",
		},
		{
			name:     "timeout",
			err:      fmt.Errorf("run: %w", ErrTimeout),
			contains: "--timeout",
		},
		{
			name:     "kernel startup",
			err:      ErrKernelStartup,
			contains: "jupyter",
		},
		{
			name:     "malformed",
			err:      ErrMalformed,
			contains: "nbformat",
		},
		{
			name:     "cancelled",
			err:      ErrCancelled,
			contains: "cancelled",
		},
		{
			name:     "unknown error passes through",
			err:      errors.New("custom failure"),
			contains: "custom failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("expected empty string, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	if err := WrapErrorf(nil, "context"); err != nil {
		t.Errorf("expected nil for nil error, got %v", err)
	}

	inner := errors.New("inner")
	err := WrapErrorf(inner, "reading %s", "file.ipynb")
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be findable")
	}
	if !strings.Contains(err.Error(), "file.ipynb") {
		t.Errorf("expected formatted context, got %q", err.Error())
	}
}
