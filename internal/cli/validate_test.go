package cli

import (
	"strings"
	"testing"
)

func TestValidateCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "good.ipynb", markdownOnlyNotebook)

	out, err := execRoot(t, "validate", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("expected OK line, got:\n%s", out)
	}
}

func TestValidateCommand_InvalidNotebook(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "good.ipynb", markdownOnlyNotebook)
	writeTestNotebook(t, dir, "bad.ipynb", `{"cells": "not a list"}`)

	out, err := execRoot(t, "validate", dir, "--config", cfg)
	if err == nil {
		t.Fatalf("expected error for invalid notebook, output:\n%s", out)
	}
	if !strings.Contains(err.Error(), "1 of 2 notebooks failed validation") {
		t.Errorf("expected validation count in error, got %v", err)
	}
	if !strings.Contains(out, "INVALID") {
		t.Errorf("expected INVALID line, got:\n%s", out)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("expected OK line for the good notebook, got:\n%s", out)
	}
}

func TestValidateCommand_NoNotebooks(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execRoot(t, "validate", t.TempDir(), "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No notebooks found") {
		t.Errorf("expected notice about empty discovery, got %q", out)
	}
}
