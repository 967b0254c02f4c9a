package util

import (
	"path/filepath"
	"testing"
)

func TestIsNotebook(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "notebook file",
			path: "analysis.ipynb",
			want: true,
		},
		{
			name: "uppercase extension",
			path: "analysis.IPYNB",
			want: true,
		},
		{
			name: "nested notebook",
			path: filepath.Join("docs", "examples", "intro.ipynb"),
			want: true,
		},
		{
			name: "python file",
			path: "script.py",
			want: false,
		},
		{
			name: "no extension",
			path: "README",
			want: false,
		},
		{
			name: "extension-like directory",
			path: filepath.Join("data.ipynb", "file.txt"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotebook(tt.path); got != tt.want {
				t.Errorf("IsNotebook(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDisplayPath_Relative(t *testing.T) {
	wd, err := filepath.Abs(".")
	if err != nil {
		t.Fatalf("failed to resolve working directory: %v", err)
	}

	abs := filepath.Join(wd, "notebooks", "demo.ipynb")
	got := DisplayPath(abs)

	want := filepath.Join("notebooks", "demo.ipynb")
	if got != want {
		t.Errorf("DisplayPath(%q) = %q, want %q", abs, got, want)
	}
}

func TestDisplayPath_OutsideWorkingDir(t *testing.T) {
	// Paths above the working directory should be left untouched
	path := string(filepath.Separator) + filepath.Join("somewhere", "else", "nb.ipynb")
	if got := DisplayPath(path); got != path {
		t.Errorf("DisplayPath(%q) = %q, want original path", path, got)
	}
}
