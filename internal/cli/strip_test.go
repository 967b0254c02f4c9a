package cli

import (
	"os"
	"strings"
	"testing"
)

const dirtyNotebook = `{
 "cells": [
  {
   "cell_type": "code",
   "execution_count": 3,
   "metadata": {},
   "outputs": [
    {
     "name": "stdout",
     "output_type": "stream",
     "text": ["hi\n"]
    }
   ],
   "source": ["print('hi')"]
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

func TestStripCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	dirty := writeTestNotebook(t, dir, "dirty.ipynb", dirtyNotebook)
	writeTestNotebook(t, dir, "clean.ipynb", codeCellNotebook)

	out, err := execRoot(t, "strip", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}

	if !strings.Contains(out, "Stripped") {
		t.Errorf("expected Stripped line, got:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 notebooks stripped") {
		t.Errorf("expected strip count, got:\n%s", out)
	}

	// The dirty notebook should now be clean on disk
	data, err := os.ReadFile(dirty)
	if err != nil {
		t.Fatalf("failed to re-read notebook: %v", err)
	}
	if strings.Contains(string(data), `"output_type"`) {
		t.Error("expected outputs to be removed from the notebook")
	}
	if !strings.Contains(string(data), `"execution_count": null`) {
		t.Error("expected execution_count to be reset to null")
	}
}

func TestStripCommand_NoNotebooks(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execRoot(t, "strip", t.TempDir(), "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No notebooks found") {
		t.Errorf("expected notice about empty discovery, got %q", out)
	}
}

func TestStripCommand_SingleFile(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	dirty := writeTestNotebook(t, dir, "dirty.ipynb", dirtyNotebook)

	out, err := execRoot(t, "strip", dirty, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "1 of 1 notebooks stripped") {
		t.Errorf("expected strip count, got:\n%s", out)
	}
}

func TestStripCommand_UnreadableNotebook(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	writeTestNotebook(t, dir, "broken.ipynb", "{not json")

	out, err := execRoot(t, "strip", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("strip should not fail the command for bad notebooks: %v", err)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected ERROR line for malformed notebook, got:\n%s", out)
	}
}
