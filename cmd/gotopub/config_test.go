package main

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"journals-path", "journals_path"},
		{"journals_path", "journals_path"},
		{"Journals-Path", "journals_path"},
		{"browser", "browser"},
		{"CHECK-RATE", "check_rate"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.input); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
