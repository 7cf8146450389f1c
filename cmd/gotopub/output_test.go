package main

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"Nature", 10, "Nature"},
		{"Journal of the American Chemical Society", 20, "Journal of the Am..."},
		{"exactly", 7, "exactly"},
		{"Zeitschrift für", 15, "Zeitschrift für"},
		{"ÄÄÄÄÄÄÄÄ", 6, "ÄÄÄ..."},
		{"Acta Physica Sinica (物理学报)", 24, "Acta Physica Sinica (..."},
	}

	for _, tt := range tests {
		got := truncateString(tt.s, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateString(%q, %d) produced invalid UTF-8", tt.s, tt.maxLen)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("aps", 6); got != "aps   " {
		t.Errorf("padRight() = %q", got)
	}
	if got := padRight("nature", 3); got != "nature" {
		t.Errorf("padRight() = %q, want unchanged", got)
	}
	if got := padRight("für", 5); got != "für  " {
		t.Errorf("padRight() = %q, want two spaces of padding", got)
	}
}
