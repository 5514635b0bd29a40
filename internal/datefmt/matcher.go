package datefmt

import (
	"fmt"
	"time"

	"github.com/TimurManjosov/govtag/internal/rules"
)

// Matcher applies strict matching on top of a Parser.
type Matcher struct {
	Parser Parser
}

// NewMatcher returns a Matcher backed by p. A nil p yields a Matcher whose
// every call fails with rules.ErrCapabilityMissing.
func NewMatcher(p Parser) Matcher {
	return Matcher{Parser: p}
}

// Available reports whether a parser is installed.
func (m Matcher) Available() bool {
	return m.Parser != nil
}

// Probe parses value against format with the installed parser.
func (m Matcher) Probe(value, format string) (Probe, error) {
	if m.Parser == nil {
		return Probe{}, fmt.Errorf("%w: no date parser installed", rules.ErrCapabilityMissing)
	}
	return m.Parser.Parse(value, format)
}

// Matches reports whether value is a real date/time in exactly the given
// format: every token consumed input and no input was left over.
func (m Matcher) Matches(value, format string) (bool, error) {
	p, err := m.Probe(value, format)
	if err != nil {
		return false, err
	}
	return p.Strict(), nil
}

// Instant parses value strictly and returns the resulting instant. ok is
// false when value does not strictly match format.
func (m Matcher) Instant(value, format string) (t time.Time, ok bool, err error) {
	p, err := m.Probe(value, format)
	if err != nil {
		return time.Time{}, false, err
	}
	if !p.Strict() {
		return time.Time{}, false, nil
	}
	return *p.Instant, true, nil
}

// FormatFor returns the format used for a date-typed argument when the rule
// does not supply one. ok is false for types other than date, time and
// datetime.
func FormatFor(typ string) (format string, ok bool) {
	format, ok = DefaultFormats[typ]
	return format, ok
}
