package engine

import (
	"fmt"
	"strconv"

	"github.com/TimurManjosov/govtag/internal/rules"
)

// ruleHandlers is the dispatch table shared by every Evaluator as its
// starting point. It is never modified after initialisation.
var ruleHandlers = map[rules.Kind]handlerFunc{
	rules.KindRequired:       checkRequired,
	rules.KindNotWhitespaces: checkNotWhitespaces,
	rules.KindEnum:           checkEnum,
	rules.KindDigits:         checkDigits,
	rules.KindNumber:         checkNumber,
	rules.KindRangeNumbers:   checkRangeNumbers,
	rules.KindRangeLetters:   checkRangeLetters,
	rules.KindRangeCharCode:  checkRangeCharCode,
	rules.KindRangeLength:    checkRangeLength,
	rules.KindPositive:       signHandler(func(f float64) bool { return f > 0 }),
	rules.KindNegative:       signHandler(func(f float64) bool { return f < 0 }),
	rules.KindMin:            boundHandler(func(a, b float64) bool { return a >= b }),
	rules.KindMax:            boundHandler(func(a, b float64) bool { return a <= b }),
	rules.KindMinLength:      lengthHandler(func(n, limit int) bool { return n >= limit }),
	rules.KindMaxLength:      lengthHandler(func(n, limit int) bool { return n <= limit }),
	rules.KindEqual:          checkEqual,
	rules.KindNotEqual:       negate(checkEqual),
	rules.KindStartWith:      checkStartWith,
	rules.KindEndWith:        checkEndWith,
	rules.KindContain:        checkContain,
	rules.KindNotContain:     negate(checkContain),
	rules.KindRegexp:         checkRegexp,
	rules.KindDate:           patternOrFormat(matchDate),
	rules.KindTime:           patternOrFormat(timePattern.MatchString),
	rules.KindDateTime:       patternOrFormat(matchDateTime),
	rules.KindCustomDate:     checkCustomDate,
	rules.KindEmail:          patternHandler(emailPattern.MatchString),
	rules.KindURL:            patternHandler(urlPattern.MatchString),
	rules.KindPhoneNumber:    checkPhoneNumber,
}

func negate(h handlerFunc) handlerFunc {
	return func(e *Evaluator, c call) (bool, error) {
		ok, err := h(e, c)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

func patternHandler(match func(string) bool) handlerFunc {
	return func(_ *Evaluator, c call) (bool, error) {
		return match(c.value), nil
	}
}

func malformed(tok rules.Token, reason string) error {
	return fmt.Errorf("%w: %q: %s", rules.ErrMalformedRule, tok.Raw, reason)
}

// hasArgs reports whether the token carries a non-empty argument payload.
func (c call) hasArgs() bool {
	return c.tok.HasArgs && c.tok.RawArgs != ""
}

// pair returns the two comma separated arguments of range rules.
func (c call) pair() (string, string, error) {
	args := c.tok.Args(rules.ArgDelimiter)
	if len(args) != 2 {
		return "", "", malformed(c.tok, fmt.Sprintf("want 2 arguments, got %d", len(args)))
	}
	return args[0], args[1], nil
}

// count parses a non-negative integer argument.
func (c call) count(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, malformed(c.tok, fmt.Sprintf("%q is not a count", s))
	}
	return n, nil
}
