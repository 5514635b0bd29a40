package engine

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Values and rule arguments are text. The helpers below give them the
// numeric and length semantics form values traditionally have in browsers.

var (
	decimalText  = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	hexText      = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	floatPrefix  = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	intPrefix    = regexp.MustCompile(`^[+-]?\d+`)
	thousandsSep = strings.NewReplacer(",", "")
)

// toNumber converts the whole of s to a number. Surrounding whitespace is
// ignored and blank text is zero.
func toNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, true
	case s == "Infinity" || s == "+Infinity":
		return math.Inf(1), true
	case s == "-Infinity":
		return math.Inf(-1), true
	case hexText.MatchString(s):
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	case decimalText.MatchString(s):
		return parseDecimal(s)
	}
	return 0, false
}

// parseFloatPrefix reads the longest leading decimal number of s.
func parseFloatPrefix(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	switch m {
	case "":
		return math.NaN(), false
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	return parseDecimal(m)
}

// parseIntPrefix reads the leading decimal integer of s.
func parseIntPrefix(s string) (int64, bool) {
	m := intPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDecimal(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// numericValue reads a value already known to match the number pattern,
// thousands separators included.
func numericValue(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	return parseFloatPrefix(thousandsSep.Replace(s))
}

// textLength counts UTF-16 code units.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
			continue
		}
		n++
	}
	return n
}

// charCodeSum adds up the UTF-16 code units of s.
func charCodeSum(s string) int {
	sum := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			hi, lo := utf16.EncodeRune(r)
			sum += int(hi) + int(lo)
			continue
		}
		sum += int(r)
	}
	return sum
}
