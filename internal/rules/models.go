// Package rules defines the rule vocabulary of the validation engine: the
// closed set of rule kinds, rule tokens parsed from text and rule chains.
package rules

import "strings"

// Kind identifies a validation rule. The set of kinds is closed; anything
// outside it is rejected with ErrUnknownRule.
type Kind string

// Supported rule kinds (string values match the rule text).
const (
	KindRequired       Kind = "required"
	KindNotWhitespaces Kind = "notwhitespaces"
	KindEnum           Kind = "enum"
	KindDigits         Kind = "digits"
	KindNumber         Kind = "number"
	KindRangeNumbers   Kind = "rangenumbers"
	KindRangeLetters   Kind = "rangeletters"
	KindRangeCharCode  Kind = "rangecharcode"
	KindRangeLength    Kind = "rangelength"
	KindPositive       Kind = "positive"
	KindNegative       Kind = "negative"
	KindMin            Kind = "min"
	KindMax            Kind = "max"
	KindMinLength      Kind = "minlength"
	KindMaxLength      Kind = "maxlength"
	KindEqual          Kind = "equal"
	KindNotEqual       Kind = "notequal"
	KindStartWith      Kind = "startwith"
	KindEndWith        Kind = "endwith"
	KindContain        Kind = "contain"
	KindNotContain     Kind = "notcontain"
	KindRegexp         Kind = "regexp"
	KindDate           Kind = "date"
	KindTime           Kind = "time"
	KindDateTime       Kind = "datetime"
	KindCustomDate     Kind = "customdate"
	KindEmail          Kind = "email"
	KindURL            Kind = "url"
	KindPhoneNumber    Kind = "phonenumber"
)

// Argument delimiters. Date-typed min/max arguments use ';' so that
// comparers and formats may contain ','.
const (
	ArgDelimiter     = ","
	DateArgDelimiter = ";"
	ChainDelimiter   = "#"
)

// allKinds keeps declaration order for listings.
var allKinds = []Kind{
	KindRequired,
	KindNotWhitespaces,
	KindEnum,
	KindDigits,
	KindNumber,
	KindRangeNumbers,
	KindRangeLetters,
	KindRangeCharCode,
	KindRangeLength,
	KindPositive,
	KindNegative,
	KindMin,
	KindMax,
	KindMinLength,
	KindMaxLength,
	KindEqual,
	KindNotEqual,
	KindStartWith,
	KindEndWith,
	KindContain,
	KindNotContain,
	KindRegexp,
	KindDate,
	KindTime,
	KindDateTime,
	KindCustomDate,
	KindEmail,
	KindURL,
	KindPhoneNumber,
}

var validKinds = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(allKinds))
	for _, k := range allKinds {
		m[k] = struct{}{}
	}
	return m
}()

// Kinds returns every supported rule kind in declaration order.
// The returned slice is a copy and may be modified by the caller.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := validKinds[k]
	return ok
}

// IsKind reports whether s names a supported rule kind.
func IsKind(s string) bool {
	return Kind(s).Valid()
}

// Token is one identifier[(args)] unit of a rule chain.
// Tokens are values; once parsed they are never mutated.
type Token struct {
	Raw     string `json:"raw"`
	Kind    Kind   `json:"kind"`
	RawArgs string `json:"args,omitempty"`
	// HasArgs is true when the token carried a parenthesis group, even an empty one.
	HasArgs bool `json:"-"`
}

// Args splits the raw argument payload on delim, trimming every part.
func (t Token) Args(delim string) []string {
	return SplitArgs(t.RawArgs, delim)
}

// String returns the raw rule text.
func (t Token) String() string { return t.Raw }

// Chain is an ordered sequence of tokens. Order is evaluation order.
type Chain []Token

// String joins the raw token texts back with the chain delimiter.
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, t := range c {
		parts[i] = t.Raw
	}
	return strings.Join(parts, ChainDelimiter)
}
