package models

import "testing"

func TestFormatDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ada Lovelace", "Ada L."},
		{"  Grace   Brewster Hopper ", "Grace H."},
		{"Linus", "Linus"},
		{"", ""},
		{"Émile Ørsted", "Émile Ø."},
	}
	for _, tt := range tests {
		if got := FormatDisplayName(tt.in); got != tt.want {
			t.Errorf("FormatDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
