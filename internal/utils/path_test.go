package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.config/habitgrid/habitgrid.db", filepath.Join(home, ".config/habitgrid/habitgrid.db")},
		{"/tmp/habitgrid.db", "/tmp/habitgrid.db"},
		{"relative/path.db", "relative/path.db"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
