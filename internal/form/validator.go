// Package form validates whole form submissions against stored form
// definitions. Each field's rule chain runs through the engine; fields are
// evaluated concurrently and reported in definition order.
package form

import (
	"context"
	"fmt"
	"time"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/rules"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/targeting"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds how many fields are evaluated at once.
const DefaultMaxConcurrency = 8

// Input is one form submission.
type Input struct {
	Values map[string]string `json:"values" yaml:"values"`
	// Checked holds the state of checkbox and radio controls by field name.
	Checked map[string]bool `json:"checked,omitempty" yaml:"checked,omitempty"`
}

// FieldResult is the verdict for one field.
type FieldResult struct {
	Field   string `json:"field"`
	Passed  bool   `json:"passed"`
	Skipped bool   `json:"skipped,omitempty"`
	// FailingRule is the raw text of the first rule that did not hold.
	FailingRule string `json:"failingRule,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Report is the verdict for a whole submission.
type Report struct {
	RunID       uuid.UUID     `json:"runId"`
	Form        string        `json:"form"`
	Valid       bool          `json:"valid"`
	Fields      []FieldResult `json:"fields"`
	EvaluatedAt time.Time     `json:"evaluatedAt"`
}

// Failed returns the results of the fields that did not pass.
func (r Report) Failed() []FieldResult {
	var out []FieldResult
	for _, f := range r.Fields {
		if !f.Passed && !f.Skipped {
			out = append(out, f)
		}
	}
	return out
}

// Validator runs form definitions against submissions. It is safe for
// concurrent use.
type Validator struct {
	engine         *engine.Evaluator
	maxConcurrency int
	lang           Lang
	log            zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxConcurrency sets the number of fields evaluated in parallel.
// Values below one are ignored.
func WithMaxConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxConcurrency = n
		}
	}
}

// WithLang sets the language of the default messages.
func WithLang(l Lang) Option {
	return func(v *Validator) { v.lang = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(v *Validator) { v.log = l }
}

// NewValidator returns a Validator that evaluates rules with ev.
func NewValidator(ev *engine.Evaluator, opts ...Option) *Validator {
	v := &Validator{
		engine:         ev,
		maxConcurrency: DefaultMaxConcurrency,
		lang:           DefaultLang,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate evaluates every field of def against in.
//
// A field whose When condition does not hold is reported as skipped and
// counts as passed. A rule that does not hold is a failed field, not an
// error; errors are reserved for broken definitions (unknown or malformed
// rules, bad roles or conditions, a missing date parser) and for ctx being
// cancelled, and they abort the whole report.
func (v *Validator) Validate(ctx context.Context, def store.Form, in Input) (Report, error) {
	report := Report{
		RunID:       uuid.New(),
		Form:        def.Name,
		Fields:      make([]FieldResult, len(def.Fields)),
		EvaluatedAt: time.Now().UTC(),
	}
	data := targeting.FormData(in.Values, in.Checked)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxConcurrency)
	for i, field := range def.Fields {
		i, field := i, field
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := v.validateField(field, in, data)
			if err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
			report.Fields[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		v.log.Warn().Err(err).Str("form", def.Name).Str("run_id", report.RunID.String()).Msg("form validation aborted")
		return Report{}, err
	}

	report.Valid = true
	for _, res := range report.Fields {
		if !res.Passed {
			report.Valid = false
			break
		}
	}
	v.log.Debug().
		Str("form", def.Name).
		Str("run_id", report.RunID.String()).
		Bool("valid", report.Valid).
		Int("fields", len(report.Fields)).
		Msg("form validated")
	return report, nil
}

func (v *Validator) validateField(field store.Field, in Input, data targeting.Data) (FieldResult, error) {
	res := FieldResult{Field: field.Name}

	role, ok := engine.ParseRole(field.Role)
	if !ok {
		return res, fmt.Errorf("%w: unknown role %q", rules.ErrMalformedRule, field.Role)
	}

	if field.When != "" {
		holds, err := targeting.Evaluate(field.When, data)
		if err != nil {
			return res, fmt.Errorf("when: %w", err)
		}
		if !holds {
			res.Passed = true
			res.Skipped = true
			return res, nil
		}
	}

	outcome, err := v.engine.EvaluateChain(field.Rules, in.Values[field.Name], engine.Field{
		Control:   role,
		IsChecked: in.Checked[field.Name],
	})
	if err != nil {
		return res, err
	}

	res.Passed = outcome.Passed
	if outcome.FailingToken != nil {
		res.FailingRule = outcome.FailingToken.Raw
	}
	res.Message = v.lang.message(res.Passed, field.OKMessage, field.ErrorMessage)
	return res, nil
}
