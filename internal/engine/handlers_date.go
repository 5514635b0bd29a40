package engine

import (
	"fmt"
	"strings"

	"github.com/TimurManjosov/govtag/internal/datefmt"
	"github.com/TimurManjosov/govtag/internal/rules"
)

func matchDate(value string) bool {
	return datePattern.MatchString(value)
}

// matchDateTime expects exactly one space between a date and a time.
func matchDateTime(value string) bool {
	parts := strings.Split(value, " ")
	return len(parts) == 2 && datePattern.MatchString(parts[0]) && timePattern.MatchString(parts[1])
}

// patternOrFormat checks value against the built-in pattern, or strictly
// against the format given as argument.
func patternOrFormat(match func(string) bool) handlerFunc {
	return func(e *Evaluator, c call) (bool, error) {
		if c.hasArgs() {
			return e.matchesFormat(c, c.tok.RawArgs)
		}
		return match(c.value), nil
	}
}

func checkCustomDate(e *Evaluator, c call) (bool, error) {
	if !c.hasArgs() {
		if !e.dates.Available() {
			return false, fmt.Errorf("%w: %q", rules.ErrCapabilityMissing, c.tok.Raw)
		}
		return false, malformed(c.tok, "missing format")
	}
	return e.matchesFormat(c, c.tok.RawArgs)
}

func (e *Evaluator) matchesFormat(c call, format string) (bool, error) {
	ok, err := e.dates.Matches(c.value, format)
	if err != nil {
		return false, fmt.Errorf("%q: %w", c.tok.Raw, err)
	}
	return ok, nil
}

// compareDates implements "type;comparer[;format]" for min and max. Both the
// value and the comparer must strictly match the format; otherwise the rule
// fails.
func (e *Evaluator) compareDates(c call, cmp func(a, b float64) bool) (bool, error) {
	if !e.dates.Available() {
		return false, fmt.Errorf("%w: %q", rules.ErrCapabilityMissing, c.tok.Raw)
	}

	args := c.tok.Args(rules.DateArgDelimiter)
	if len(args) > 3 {
		return false, malformed(c.tok, fmt.Sprintf("want at most 3 date arguments, got %d", len(args)))
	}
	format, ok := datefmt.FormatFor(args[0])
	if !ok {
		return false, malformed(c.tok, fmt.Sprintf("unknown date type %q", args[0]))
	}
	if len(args) == 3 && args[2] != "" {
		format = args[2]
	}
	comparer := args[1]

	value, ok, err := e.dates.Instant(c.value, format)
	if err != nil || !ok {
		return false, err
	}
	limit, ok, err := e.dates.Instant(comparer, format)
	if err != nil || !ok {
		return false, err
	}
	return cmp(float64(value.Compare(limit)), 0), nil
}
