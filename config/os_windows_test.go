//go:build windows

package config

import "testing"

func TestCleanFileName_Windows(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Run <1>: "smoke"?`, "Run 1 smoke"},
		{`a\b/c|d*e`, "abcde"},
		{"con", "_con"},
		{"LPT1.report", "_LPT1.report"},
		{"CONSOLE", "CONSOLE"},
		{"v1.2.", "v1.2"},
		{"...", "_bad_file_name_"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
