package tree

import "strings"

// Match matches pattern against a leading address component of input,
// honoring OSC-style wildcards: ? matches any single character, * any run of
// characters, [...] a character class with optional ! negation and a-z
// ranges, and {a,b} one of a comma-separated list of literals. No wildcard
// crosses a / boundary.
//
// On success it returns the input remaining after the matched component,
// with its leading slash already consumed. The match is anchored: the
// pattern must cover the component exactly, up to the next slash or the end
// of input.
func Match(pattern, input string) (string, bool) {
	end := len(input)
	if i := strings.IndexByte(input, '/'); i >= 0 {
		end = i
	}
	if !matchComponent(pattern, input[:end]) {
		return "", false
	}
	if end == len(input) {
		return "", true
	}
	return input[end+1:], true
}

func matchComponent(pat, s string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '?':
			if len(s) == 0 {
				return false
			}
			pat, s = pat[1:], s[1:]
		case '*':
			pat = pat[1:]
			if len(pat) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchComponent(pat, s[i:]) {
					return true
				}
			}
			return false
		case '[':
			rest, ok := matchClass(pat, s)
			if !ok {
				return false
			}
			pat, s = rest, s[1:]
		case '{':
			return matchAlternation(pat, s)
		default:
			if len(s) == 0 || s[0] != pat[0] {
				return false
			}
			pat, s = pat[1:], s[1:]
		}
	}
	return len(s) == 0
}

// matchClass matches s[0] against the class opening at pat[0] == '[' and
// returns the pattern remaining after the closing bracket.
func matchClass(pat, s string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	c := s[0]
	i := 1
	negate := false
	if i < len(pat) && pat[i] == '!' {
		negate = true
		i++
	}
	matched := false
	for i < len(pat) && pat[i] != ']' {
		lo := pat[i]
		if i+2 < len(pat) && pat[i+1] == '-' && pat[i+2] != ']' {
			if lo <= c && c <= pat[i+2] {
				matched = true
			}
			i += 3
		} else {
			if c == lo {
				matched = true
			}
			i++
		}
	}
	if i >= len(pat) {
		// Unterminated class never matches.
		return "", false
	}
	if matched == negate {
		return "", false
	}
	return pat[i+1:], true
}

// matchAlternation matches the {a,b,...} opening at pat[0] == '{'. Each
// alternative is a literal; the first one that lets the rest of the pattern
// match wins.
func matchAlternation(pat, s string) bool {
	close := strings.IndexByte(pat, '}')
	if close < 0 {
		return false
	}
	rest := pat[close+1:]
	for _, alt := range strings.Split(pat[1:close], ",") {
		if strings.HasPrefix(s, alt) && matchComponent(rest, s[len(alt):]) {
			return true
		}
	}
	return false
}
