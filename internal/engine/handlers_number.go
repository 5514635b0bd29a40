package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TimurManjosov/govtag/internal/rules"
)

func checkDigits(_ *Evaluator, c call) (bool, error) {
	want := -1
	if c.hasArgs() {
		n, err := c.count(c.tok.RawArgs)
		if err != nil {
			return false, err
		}
		want = n
	}
	if !digitsPattern.MatchString(c.value) {
		return false, nil
	}
	return want < 0 || len(c.value) == want, nil
}

func checkNumber(_ *Evaluator, c call) (bool, error) {
	return numberPattern.MatchString(c.value), nil
}

// checkRangeNumbers converts the whole value to a number before the
// inclusive comparison, so "05" is 5 and "5px" is not a number at all.
// Bounds are read as leading integers.
func checkRangeNumbers(_ *Evaluator, c call) (bool, error) {
	lo, hi, err := c.pair()
	if err != nil {
		return false, err
	}
	from, ok := parseIntPrefix(lo)
	if !ok {
		return false, malformed(c.tok, fmt.Sprintf("%q is not an integer bound", lo))
	}
	to, ok := parseIntPrefix(hi)
	if !ok {
		return false, malformed(c.tok, fmt.Sprintf("%q is not an integer bound", hi))
	}

	v, ok := toNumber(c.value)
	if !ok {
		return false, nil
	}
	return v >= float64(from) && v <= float64(to), nil
}

// numericInput reads value as a number. Values outside the number pattern,
// the empty value included, are not numbers.
func numericInput(value string) (float64, bool) {
	if !numberPattern.MatchString(value) {
		return 0, false
	}
	return numericValue(value)
}

func signHandler(test func(float64) bool) handlerFunc {
	return func(_ *Evaluator, c call) (bool, error) {
		v, ok := numericInput(c.value)
		return ok && test(v), nil
	}
}

// boundHandler serves min and max. Arguments containing ';' select the date
// form "type;comparer[;format]", anything else is a numeric bound.
func boundHandler(cmp func(a, b float64) bool) handlerFunc {
	return func(e *Evaluator, c call) (bool, error) {
		if strings.Contains(c.tok.RawArgs, rules.DateArgDelimiter) {
			return e.compareDates(c, cmp)
		}

		bound, ok := parseFloatPrefix(c.tok.RawArgs)
		if !ok {
			return false, malformed(c.tok, fmt.Sprintf("%q is not a numeric bound", c.tok.RawArgs))
		}
		v, ok := numericInput(c.value)
		return ok && cmp(v, bound), nil
	}
}

var phoneSeparators = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")

// checkPhoneNumber strips separators, reads the leading integer and checks
// for nine digits starting with 6, 7, 8 or 9.
func checkPhoneNumber(_ *Evaluator, c call) (bool, error) {
	n, ok := parseIntPrefix(phoneSeparators.Replace(c.value))
	if !ok {
		return false, nil
	}
	return phonePattern.MatchString(strconv.FormatInt(n, 10)), nil
}
