package tree

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		rest    string
		ok      bool
	}{
		{"input", "input", "", true},
		{"in?ut", "input", "", true},
		{"in*ut", "inxxxput", "", true},
		{"input", "output", "", false},
		{"input", "input/3/mute", "3/mute", true},
		{"*", "anything", "", true},
		{"*", "gain/fine", "fine", true},
		{"?", "ab", "", false},
		{"[0-9]", "7", "", true},
		{"[0-9]", "x", "", false},
		{"[!0-9]", "x", "", true},
		{"ch[12]", "ch2/volume", "volume", true},
		{"ch[12]", "ch3", "", false},
		{"{volume,mute}", "mute", "", true},
		{"{volume,mute}", "pan", "", false},
		{"{in,out}put", "output/1", "1", true},
		{"in*", "input", "", true},
		{"*put", "input", "", true},
		{"a*b*c", "axxbyyc", "", true},
		{"a*b*c", "axxbyy", "", false},
		// Wildcards never cross a component boundary.
		{"in*", "in/put", "put", true},
		{"input/3", "input/3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.input, func(t *testing.T) {
			rest, ok := Match(tt.pattern, tt.input)
			if ok != tt.ok {
				t.Fatalf("Match(%q, %q) ok = %v, want %v", tt.pattern, tt.input, ok, tt.ok)
			}
			if ok && rest != tt.rest {
				t.Errorf("Match(%q, %q) rest = %q, want %q", tt.pattern, tt.input, rest, tt.rest)
			}
		})
	}
}
