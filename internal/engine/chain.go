package engine

import (
	"fmt"
	"strings"

	"github.com/TimurManjosov/govtag/internal/rules"
)

// State is the position of a chain run.
type State int

const (
	StatePending State = iota
	StateRunning
	StatePassed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the result of evaluating a rule chain.
type Outcome struct {
	Passed bool `json:"passed"`
	// FailingToken is the first token that did not hold; nil when Passed.
	FailingToken *rules.Token `json:"failingToken,omitempty"`
	// FailingIndex is the position of FailingToken, or -1.
	FailingIndex int `json:"failingIndex"`
}

// chainRun walks a chain left to right. Tokens are parsed only when
// reached, so nothing after a failing token is looked at.
type chainRun struct {
	raws   []string
	state  State
	index  int
	failed *rules.Token
}

func newChainRun(chain string) *chainRun {
	return &chainRun{raws: rules.SplitChain(chain), state: StatePending}
}

func (r *chainRun) done() bool {
	return r.state == StatePassed || r.state == StateFailed
}

// step evaluates the token at the current index and advances the state.
func (r *chainRun) step(e *Evaluator, value string, field FieldContext) error {
	switch r.state {
	case StatePending:
		r.state = StateRunning
		r.index = 0
	case StateRunning:
	default:
		return nil
	}

	tok, err := rules.ParseToken(r.raws[r.index])
	if err != nil {
		return fmt.Errorf("token[%d]: %w", r.index, err)
	}
	ok, err := e.evaluateToken(tok, value, field)
	if err != nil {
		return fmt.Errorf("token[%d]: %w", r.index, err)
	}
	if !ok {
		r.state = StateFailed
		r.failed = &tok
		return nil
	}

	r.index++
	if r.index == len(r.raws) {
		r.state = StatePassed
	}
	return nil
}

func (r *chainRun) outcome() Outcome {
	if r.state == StatePassed {
		return Outcome{Passed: true, FailingIndex: -1}
	}
	if r.state == StateFailed {
		return Outcome{FailingToken: r.failed, FailingIndex: r.index}
	}
	return Outcome{FailingIndex: r.index}
}

// EvaluateChain evaluates a '#' separated rule chain against value with
// short-circuit AND semantics. A structural error stops the run and is
// returned together with the outcome reached so far, whose FailingIndex is
// the offending token.
func (e *Evaluator) EvaluateChain(chain, value string, field FieldContext) (Outcome, error) {
	if strings.TrimSpace(chain) == "" {
		return Outcome{FailingIndex: -1}, fmt.Errorf("%w: empty rule chain", rules.ErrMalformedRule)
	}

	run := newChainRun(chain)
	for !run.done() {
		if err := run.step(e, value, field); err != nil {
			return run.outcome(), err
		}
	}
	return run.outcome(), nil
}
