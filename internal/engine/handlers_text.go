package engine

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/TimurManjosov/govtag/internal/rules"
)

func checkRequired(_ *Evaluator, c call) (bool, error) {
	switch roleOf(c.field) {
	case RoleCheckbox, RoleRadio:
		return c.field.Checked(), nil
	default:
		return c.value != "", nil
	}
}

func checkNotWhitespaces(_ *Evaluator, c call) (bool, error) {
	return !strings.Contains(c.value, " "), nil
}

func checkEnum(_ *Evaluator, c call) (bool, error) {
	options := c.tok.Args(rules.ArgDelimiter)
	return slices.Contains(options, strings.TrimSpace(c.value)), nil
}

// checkRangeLetters passes for exactly one character between the first
// characters of both bounds, inclusive.
func checkRangeLetters(_ *Evaluator, c call) (bool, error) {
	lo, hi, err := c.pair()
	if err != nil {
		return false, err
	}
	if lo == "" || hi == "" {
		return false, malformed(c.tok, "empty letter bound")
	}
	from, _ := utf8.DecodeRuneInString(lo)
	to, _ := utf8.DecodeRuneInString(hi)
	if from > to {
		return false, malformed(c.tok, fmt.Sprintf("letter range %q-%q out of order", from, to))
	}

	r, size := utf8.DecodeRuneInString(c.value)
	if size == 0 || size != len(c.value) {
		return false, nil
	}
	return r >= from && r <= to, nil
}

// checkRangeCharCode compares character code sums. Unlike rangenumbers both
// ends are exclusive.
func checkRangeCharCode(_ *Evaluator, c call) (bool, error) {
	lo, hi, err := c.pair()
	if err != nil {
		return false, err
	}
	sum := charCodeSum(c.value)
	return sum > charCodeSum(lo) && sum < charCodeSum(hi), nil
}

func checkRangeLength(_ *Evaluator, c call) (bool, error) {
	lo, hi, err := c.pair()
	if err != nil {
		return false, err
	}
	shortest, err := c.count(lo)
	if err != nil {
		return false, err
	}
	longest, err := c.count(hi)
	if err != nil {
		return false, err
	}
	n := textLength(c.value)
	return n >= shortest && n <= longest, nil
}

func lengthHandler(cmp func(n, limit int) bool) handlerFunc {
	return func(_ *Evaluator, c call) (bool, error) {
		limit, err := c.count(c.tok.RawArgs)
		if err != nil {
			return false, err
		}
		return cmp(textLength(c.value), limit), nil
	}
}

// checkEqual compares text exactly: "5.0" is not equal(5).
func checkEqual(_ *Evaluator, c call) (bool, error) {
	return c.value == c.tok.RawArgs, nil
}

func checkStartWith(_ *Evaluator, c call) (bool, error) {
	return strings.HasPrefix(c.value, c.tok.RawArgs), nil
}

func checkEndWith(_ *Evaluator, c call) (bool, error) {
	return strings.HasSuffix(c.value, c.tok.RawArgs), nil
}

func checkContain(_ *Evaluator, c call) (bool, error) {
	return strings.Contains(c.value, c.tok.RawArgs), nil
}

func checkRegexp(e *Evaluator, c call) (bool, error) {
	rx, err := e.compiledLiteral(c.tok.RawArgs)
	if err != nil {
		return false, fmt.Errorf("%q: %w", c.tok.Raw, err)
	}
	return rx.MatchString(c.value), nil
}
