package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseLiteral splits an embedded regular expression literal into its
// pattern and flags. Both bare patterns ("^a+$") and slash-delimited literals
// ("/^a+$/i") are accepted.
//
// A leading '/' is dropped. The closing delimiter is the first '/' found in
// the last two characters of text (at an index greater than zero). When that
// slash is second to last the final character is the flag set; when it is
// last there are no flags. Without such a slash the pattern runs to the end.
// Only the tail is inspected, so a pattern whose own last characters contain
// a '/' is read as if it were delimited.
func ParseLiteral(text string) (pattern, flags string) {
	start := 0
	if strings.HasPrefix(text, "/") {
		start = 1
	}

	end := len(text)
	from := len(text) - 2
	if from < 0 {
		from = 0
	}
	if i := strings.IndexByte(text[from:], '/'); i >= 0 && from+i > 0 {
		end = from + i
		if len(text)-end == 2 {
			flags = strings.ReplaceAll(text[end:], "/", "")
		}
	}
	if end < start {
		start, end = end, start
	}
	return text[start:end], flags
}

// CompileLiteral parses text with ParseLiteral and compiles it. The flags
// i, m and s map to the equivalent inline flags; g, y and u do not change
// the outcome of a single match test and are accepted and ignored. Any other
// flag, or a pattern that does not compile, is ErrMalformedRule.
func CompileLiteral(text string) (*regexp.Regexp, error) {
	pattern, flags := ParseLiteral(text)

	inline := ""
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline, f) {
				inline += string(f)
			}
		case 'g', 'y', 'u':
		default:
			return nil, fmt.Errorf("%w: unsupported regexp flag %q in %q", ErrMalformedRule, f, text)
		}
	}
	if inline != "" {
		pattern = "(?" + inline + ")" + pattern
	}

	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRule, err)
	}
	return rx, nil
}
