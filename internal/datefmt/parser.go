// Package datefmt parses date and time strings against format token patterns
// (DD/MM/YYYY, HH:mm:ss, ...) and decides whether a value strictly matches a
// format.
//
// Parsing is forgiving in the way format-token parsers usually are: every
// token scans forward for something it can consume and anything it has to
// skip is remembered. Strictness is layered on top by Matcher, which rejects
// any parse that left tokens or input unused.
package datefmt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Probe is the result of parsing a value against a format.
type Probe struct {
	// Instant is nil when the parsed components do not form a real
	// calendar date and time.
	Instant *time.Time
	// UnusedTokens lists format tokens that found nothing to consume.
	UnusedTokens []string
	// UnusedInput holds the input skipped or left over, in order.
	UnusedInput string
}

// Strict reports whether the probe describes a complete, exact match.
func (p Probe) Strict() bool {
	return p.Instant != nil && len(p.UnusedTokens) == 0 && p.UnusedInput == ""
}

// Parser is the date-parsing capability the rule engine depends on.
type Parser interface {
	Parse(value, format string) (Probe, error)
}

// Default formats for the date-typed rule arguments.
var DefaultFormats = map[string]string{
	"date":     "DD/MM/YYYY",
	"time":     "HH:mm:ss",
	"datetime": "DD/MM/YYYY HH:mm:ss",
}

// formatTokens splits a format into bracket-escaped literals, known tokens
// and single literal characters.
var formatTokens = regexp.MustCompile(`\[[^\[]*\]|YYYY|YY|MM?|DD?|HH?|hh?|mm?|ss?|[Aa]|.`)

var (
	oneToFourDigits = regexp.MustCompile(`\d{1,4}`)
	oneToTwoDigits  = regexp.MustCompile(`\d\d?`)
	meridiem        = regexp.MustCompile(`(?i)[ap]\.?m?\.?`)
)

// TokenParser is the built-in Parser. It understands YYYY YY MM M DD D HH H
// hh h mm m ss s A a, bracket-escaped literals such as [T], and treats every
// other character of the format as a literal. Numeric tokens consume digits
// greedily up to their width: one or two for every token but YYYY, which
// takes up to four. The zero value is ready to use.
type TokenParser struct{}

var _ Parser = TokenParser{}

type components struct {
	year, month, day     int
	hour, minute, second int
	pm, hasMeridiem      bool
	twelveHour           bool
}

// Parse implements Parser. It never fails; problems are reported through
// the probe.
func (TokenParser) Parse(value, format string) (Probe, error) {
	var (
		probe  Probe
		unused []string
		input  = value
	)
	c := components{year: 1970, month: 1, day: 1}
	parsedAny := false

	for _, tok := range formatTokens.FindAllString(format, -1) {
		loc, literal := locate(tok, input)
		if loc == nil {
			probe.UnusedTokens = append(probe.UnusedTokens, tok)
			continue
		}
		if loc[0] > 0 {
			unused = append(unused, input[:loc[0]])
		}
		matched := input[loc[0]:loc[1]]
		input = input[loc[1]:]
		if literal {
			continue
		}
		parsedAny = true
		c.apply(tok, matched)
	}
	if input != "" {
		unused = append(unused, input)
	}
	probe.UnusedInput = strings.Join(unused, "")

	if parsedAny {
		if t, ok := c.instant(); ok {
			probe.Instant = &t
		}
	}
	return probe, nil
}

// locate finds the first stretch of input tok can consume. literal is true
// for format text that carries no date component.
func locate(tok, input string) (loc []int, literal bool) {
	switch tok {
	case "YYYY":
		return oneToFourDigits.FindStringIndex(input), false
	case "YY", "MM", "M", "DD", "D", "HH", "H", "hh", "h", "mm", "m", "ss", "s":
		return oneToTwoDigits.FindStringIndex(input), false
	case "A", "a":
		return meridiem.FindStringIndex(input), false
	}
	lit := tok
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		lit = tok[1 : len(tok)-1]
	}
	i := strings.Index(input, lit)
	if i < 0 {
		return nil, true
	}
	return []int{i, i + len(lit)}, true
}

func (c *components) apply(tok, in string) {
	switch tok {
	case "A", "a":
		c.hasMeridiem = true
		c.pm = strings.HasPrefix(strings.ToLower(in), "p")
		return
	}

	n, _ := strconv.Atoi(in)
	switch tok {
	case "YYYY":
		c.year = n
		if len(in) == 2 {
			c.year = twoDigitYear(n)
		}
	case "YY":
		c.year = twoDigitYear(n)
	case "MM", "M":
		c.month = n
	case "DD", "D":
		c.day = n
	case "HH", "H":
		c.hour = n
	case "hh", "h":
		c.hour = n
		c.twelveHour = true
	case "mm", "m":
		c.minute = n
	case "ss", "s":
		c.second = n
	}
}

func twoDigitYear(n int) int {
	if n > 68 {
		return 1900 + n
	}
	return 2000 + n
}

// instant validates the components against the calendar and clock.
func (c components) instant() (time.Time, bool) {
	hour := c.hour
	if c.twelveHour || c.hasMeridiem {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		if c.pm && hour < 12 {
			hour += 12
		}
		if !c.pm && hour == 12 {
			hour = 0
		}
	}

	if c.month < 1 || c.month > 12 || c.day < 1 {
		return time.Time{}, false
	}
	if c.minute > 59 || c.second > 59 || hour > 24 {
		return time.Time{}, false
	}
	// 24:00:00 is the end of the day; any other 24:xx is not a time.
	if hour == 24 && (c.minute != 0 || c.second != 0) {
		return time.Time{}, false
	}

	t := time.Date(c.year, time.Month(c.month), c.day, hour, c.minute, c.second, 0, time.UTC)
	if hour == 24 {
		// time.Date already rolled over to the next day; check the day itself.
		probe := time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, time.UTC)
		if probe.Day() != c.day || int(probe.Month()) != c.month {
			return time.Time{}, false
		}
		return t, true
	}
	if t.Day() != c.day || int(t.Month()) != c.month || t.Year() != c.year {
		return time.Time{}, false
	}
	return t, true
}
