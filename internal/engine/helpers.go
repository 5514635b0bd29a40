package engine

import (
	"strconv"

	"github.com/TimurManjosov/govtag/internal/rules"
)

// Typed wrappers. Each one formats the rule text for its kind and evaluates
// it with EvaluateRule, so the result is identical to writing the rule by
// hand.

func (e *Evaluator) rule(kind rules.Kind, value string, args ...string) (bool, error) {
	return e.EvaluateRule(rules.Format(kind, rules.ArgDelimiter, args...), value, nil)
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (e *Evaluator) IsRequired(value string, field FieldContext) (bool, error) {
	return e.EvaluateRule(string(rules.KindRequired), value, field)
}

func (e *Evaluator) HasNoWhitespace(value string) (bool, error) {
	return e.rule(rules.KindNotWhitespaces, value)
}

func (e *Evaluator) IsInEnum(value string, options ...string) (bool, error) {
	return e.rule(rules.KindEnum, value, options...)
}

// IsDigits checks for digits only; a positive count also fixes the length.
func (e *Evaluator) IsDigits(value string, count int) (bool, error) {
	if count > 0 {
		return e.rule(rules.KindDigits, value, itoa(count))
	}
	return e.rule(rules.KindDigits, value)
}

func (e *Evaluator) IsNumber(value string) (bool, error) {
	return e.rule(rules.KindNumber, value)
}

func (e *Evaluator) IsWithinNumberRange(value string, lo, hi int) (bool, error) {
	return e.rule(rules.KindRangeNumbers, value, itoa(lo), itoa(hi))
}

func (e *Evaluator) IsWithinLetterRange(value string, lo, hi rune) (bool, error) {
	return e.rule(rules.KindRangeLetters, value, string(lo), string(hi))
}

func (e *Evaluator) IsWithinCharCodeRange(value, lo, hi string) (bool, error) {
	return e.rule(rules.KindRangeCharCode, value, lo, hi)
}

func (e *Evaluator) IsWithinLengthRange(value string, lo, hi int) (bool, error) {
	return e.rule(rules.KindRangeLength, value, itoa(lo), itoa(hi))
}

func (e *Evaluator) IsPositive(value string) (bool, error) {
	return e.rule(rules.KindPositive, value)
}

func (e *Evaluator) IsNegative(value string) (bool, error) {
	return e.rule(rules.KindNegative, value)
}

func (e *Evaluator) IsAtLeast(value string, bound float64) (bool, error) {
	return e.rule(rules.KindMin, value, ftoa(bound))
}

func (e *Evaluator) IsAtMost(value string, bound float64) (bool, error) {
	return e.rule(rules.KindMax, value, ftoa(bound))
}

// IsOnOrAfterDate is min in its date form. typ is date, time or datetime;
// an empty format selects the default format of typ.
func (e *Evaluator) IsOnOrAfterDate(value, typ, comparer, format string) (bool, error) {
	return e.EvaluateRule(dateBound(rules.KindMin, typ, comparer, format), value, nil)
}

// IsOnOrBeforeDate is max in its date form.
func (e *Evaluator) IsOnOrBeforeDate(value, typ, comparer, format string) (bool, error) {
	return e.EvaluateRule(dateBound(rules.KindMax, typ, comparer, format), value, nil)
}

func dateBound(kind rules.Kind, typ, comparer, format string) string {
	if format == "" {
		return rules.Format(kind, rules.DateArgDelimiter, typ, comparer)
	}
	return rules.Format(kind, rules.DateArgDelimiter, typ, comparer, format)
}

func (e *Evaluator) HasMinLength(value string, n int) (bool, error) {
	return e.rule(rules.KindMinLength, value, itoa(n))
}

func (e *Evaluator) HasMaxLength(value string, n int) (bool, error) {
	return e.rule(rules.KindMaxLength, value, itoa(n))
}

func (e *Evaluator) IsEqual(value, comparer string) (bool, error) {
	return e.rule(rules.KindEqual, value, comparer)
}

func (e *Evaluator) IsNotEqual(value, comparer string) (bool, error) {
	return e.rule(rules.KindNotEqual, value, comparer)
}

func (e *Evaluator) StartsWith(value, prefix string) (bool, error) {
	return e.rule(rules.KindStartWith, value, prefix)
}

func (e *Evaluator) EndsWith(value, suffix string) (bool, error) {
	return e.rule(rules.KindEndWith, value, suffix)
}

func (e *Evaluator) Contains(value, needle string) (bool, error) {
	return e.rule(rules.KindContain, value, needle)
}

func (e *Evaluator) NotContains(value, needle string) (bool, error) {
	return e.rule(rules.KindNotContain, value, needle)
}

// MatchesRegexp accepts a bare pattern or a "/pattern/flags" literal.
func (e *Evaluator) MatchesRegexp(value, literal string) (bool, error) {
	return e.rule(rules.KindRegexp, value, literal)
}

func (e *Evaluator) IsValidDate(value string) (bool, error) {
	return e.rule(rules.KindDate, value)
}

func (e *Evaluator) IsValidTime(value string) (bool, error) {
	return e.rule(rules.KindTime, value)
}

func (e *Evaluator) IsValidDateTime(value string) (bool, error) {
	return e.rule(rules.KindDateTime, value)
}

// MatchesFormat is customdate: value must strictly match format.
func (e *Evaluator) MatchesFormat(value, format string) (bool, error) {
	return e.rule(rules.KindCustomDate, value, format)
}

func (e *Evaluator) IsValidEmail(value string) (bool, error) {
	return e.rule(rules.KindEmail, value)
}

func (e *Evaluator) IsValidURL(value string) (bool, error) {
	return e.rule(rules.KindURL, value)
}

func (e *Evaluator) IsValidPhoneNumber(value string) (bool, error) {
	return e.rule(rules.KindPhoneNumber, value)
}
