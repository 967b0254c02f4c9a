package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const markdownOnlyNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "metadata": {},
   "source": ["# Just prose"]
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

const codeCellNotebook = `{
 "cells": [
  {
   "cell_type": "code",
   "execution_count": null,
   "metadata": {},
   "outputs": [],
   "source": ["print('hi')"]
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

// writeTestConfig creates an empty config file so commands don't pick up
// whatever lives in the invoking user's home directory
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nbtest.yaml")
	if err := os.WriteFile(path, []byte("defaults: {}\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func writeTestNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write notebook: %v", err)
	}
	return path
}

// execRoot runs the root command with args, returning combined output
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(output)

	err := cmd.Execute()
	return output.String(), err
}

func TestRunCommand_NoNotebooksFound(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()

	out, err := execRoot(t, "run", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No notebooks found") {
		t.Errorf("expected notice about empty discovery, got %q", out)
	}
}

func TestRunCommand_NonExistentRoot(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execRoot(t, "run", filepath.Join(t.TempDir(), "missing"), "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No notebooks found") {
		t.Errorf("expected notice about empty discovery, got %q", out)
	}
}

func TestRunCommand_PassingNotebooks(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "alpha.ipynb", markdownOnlyNotebook)
	writeTestNotebook(t, dir, "beta.ipynb", markdownOnlyNotebook)

	out, err := execRoot(t, "run", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}

	if strings.Count(out, "PASS") != 2 {
		t.Errorf("expected 2 PASS lines, got output:\n%s", out)
	}
	if !strings.Contains(out, "2 passed, 0 failed in") {
		t.Errorf("expected summary line, got output:\n%s", out)
	}
}

func TestRunCommand_FailingNotebook(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "broken.ipynb", codeCellNotebook)

	out, err := execRoot(t, "run", dir,
		"--config", cfg,
		"--jupyter-command", filepath.Join(dir, "no-such-binary"),
	)
	if err == nil {
		t.Fatalf("expected error for failing notebook, output:\n%s", out)
	}
	if !strings.Contains(err.Error(), "1 of 1 notebooks failed") {
		t.Errorf("expected failure count in error, got %v", err)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("expected FAIL line, got output:\n%s", out)
	}
	if !strings.Contains(out, "0 passed, 1 failed in") {
		t.Errorf("expected summary line, got output:\n%s", out)
	}
}

func TestRunCommand_InvalidWorkers(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()

	_, err := execRoot(t, "run", dir, "--config", cfg, "--workers", "0")
	if err == nil {
		t.Fatal("expected error for zero workers")
	}
	if !strings.Contains(err.Error(), "workers") {
		t.Errorf("expected workers validation error, got %v", err)
	}
}

func TestRunCommand_NegativeTimeout(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()

	_, err := execRoot(t, "run", dir, "--config", cfg, "--timeout", "-5s")
	if err == nil {
		t.Fatal("expected error for negative timeout")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout validation error, got %v", err)
	}
}

func TestRunCommand_JSONOutput(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "alpha.ipynb", markdownOnlyNotebook)

	out, err := execRoot(t, "run", dir, "--config", cfg, "--output", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}

	for _, want := range []string{"success_rate", "passed", "notebooks"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected JSON output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "PASS ") {
		t.Errorf("structured output should not stream text lines, got:\n%s", out)
	}
}

func TestRunCommand_BenchmarkSummary(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "alpha.ipynb", markdownOnlyNotebook)

	out, err := execRoot(t, "run", dir, "--config", cfg, "--benchmark")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "avg:") {
		t.Errorf("expected benchmark stats in summary, got:\n%s", out)
	}
}
