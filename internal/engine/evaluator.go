// Package engine evaluates validation rules and rule chains against values.
package engine

import (
	"fmt"
	"regexp"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govtag/internal/datefmt"
	"github.com/TimurManjosov/govtag/internal/rules"
)

// Version is the engine version form definitions are checked against.
const Version = "1.0.0"

// Outcome labels passed to a Recorder.
const (
	ResultPass  = "pass"
	ResultFail  = "fail"
	ResultError = "error"
)

// Recorder receives one observation per evaluated rule.
type Recorder interface {
	ObserveRule(kind rules.Kind, result string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRule(rules.Kind, string, time.Duration) {}

// call carries everything a handler may look at for one rule.
type call struct {
	tok   rules.Token
	value string
	field FieldContext
}

type handlerFunc func(e *Evaluator, c call) (bool, error)

// Evaluator dispatches rule tokens to their handlers. It holds no state that
// changes the result of an evaluation and is safe for concurrent use.
type Evaluator struct {
	handlers map[rules.Kind]handlerFunc
	dates    datefmt.Matcher
	log      zerolog.Logger
	metrics  Recorder

	regexCacheSize int
	regexCache     *lru.Cache[string, *regexp.Regexp]
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDateParser installs the date-parsing capability used by customdate,
// by date/time/datetime with a format and by the date form of min/max.
func WithDateParser(p datefmt.Parser) Option {
	return func(e *Evaluator) { e.dates = datefmt.NewMatcher(p) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithMetrics sets the recorder notified after every rule.
func WithMetrics(r Recorder) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.metrics = r
		}
	}
}

// withHandler replaces the handler for one kind.
func withHandler(kind rules.Kind, h handlerFunc) Option {
	return func(e *Evaluator) { e.handlers[kind] = h }
}

// New builds an Evaluator. Without WithDateParser, rules that need to parse
// a custom date format fail with rules.ErrCapabilityMissing.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		handlers:       make(map[rules.Kind]handlerFunc, len(ruleHandlers)),
		log:            zerolog.Nop(),
		metrics:        nopRecorder{},
		regexCacheSize: DefaultRegexCacheSize,
	}
	for k, h := range ruleHandlers {
		e.handlers[k] = h
	}
	for _, opt := range opts {
		opt(e)
	}
	e.regexCache = newRegexCache(e.regexCacheSize)
	return e
}

// Default returns an Evaluator backed by the built-in token date parser.
func Default(opts ...Option) *Evaluator {
	return New(append([]Option{WithDateParser(datefmt.TokenParser{})}, opts...)...)
}

// EvaluateRule parses one rule token and evaluates it against value.
// field is only consulted by required; nil means a plain text field.
func (e *Evaluator) EvaluateRule(token, value string, field FieldContext) (bool, error) {
	tok, err := rules.ParseToken(token)
	if err != nil {
		return false, err
	}
	return e.evaluateToken(tok, value, field)
}

func (e *Evaluator) evaluateToken(tok rules.Token, value string, field FieldContext) (bool, error) {
	h, ok := e.handlers[tok.Kind]
	if !ok {
		return false, fmt.Errorf("%w: %q", rules.ErrUnknownRule, tok.Kind)
	}

	start := time.Now()
	passed, err := h(e, call{tok: tok, value: value, field: field})
	elapsed := time.Since(start)

	result := ResultFail
	switch {
	case err != nil:
		passed = false
		result = ResultError
	case passed:
		result = ResultPass
	}
	e.metrics.ObserveRule(tok.Kind, result, elapsed)
	e.log.Debug().
		Str("rule", tok.Raw).
		Str("result", result).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("rule evaluated")

	return passed, err
}
