package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("Expected error for empty directory")
	}

	v, err := NewPathValidator("/non/existent/path")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.Root() != "/non/existent/path" {
		t.Errorf("Root() = %s, want /non/existent/path", v.Root())
	}
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "2020"), 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"absolute inside", filepath.Join(root, "a.pdf"), filepath.Join(root, "a.pdf"), false},
		{"relative inside", "2020/a.pdf", filepath.Join(root, "2020", "a.pdf"), false},
		{"root itself", root, root, false},
		{"null byte stripped", "a\x00.pdf", filepath.Join(root, "a.pdf"), false},
		{"parent traversal", "../a.pdf", "", true},
		{"absolute outside", filepath.Join(outside, "a.pdf"), "", true},
		{"symlink escape", filepath.Join("escape", "a.pdf"), "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) expected error, got %s", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathValidator_ResolveDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.pdf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got, err := v.ResolveDirectory(""); err != nil || got != root {
		t.Errorf("ResolveDirectory(\"\") = %s, %v; want root", got, err)
	}
	if _, err := v.ResolveDirectory(file); err == nil {
		t.Error("Expected error for a file")
	}
	if _, err := v.ResolveDirectory("missing"); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
