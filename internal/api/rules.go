package api

import (
	"net/http"
	"strings"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/rules"
)

type rulesResponse struct {
	Version string       `json:"version"`
	Rules   []rules.Kind `json:"rules"`
}

// evaluateRuleRequest is the body of POST /v1/rules/evaluate.
type evaluateRuleRequest struct {
	Rule  string    `json:"rule"`
	Value string    `json:"value"`
	Field *fieldDTO `json:"field,omitempty"`
}

type evaluateRuleResponse struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
}

// evaluateChainRequest is the body of POST /v1/chains/evaluate.
type evaluateChainRequest struct {
	Chain string    `json:"chain"`
	Value string    `json:"value"`
	Field *fieldDTO `json:"field,omitempty"`
}

// handleListRules handles GET /v1/rules
func (s *Server) handleListRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rulesResponse{Version: engine.Version, Rules: rules.Kinds()})
}

// handleEvaluateRule handles POST /v1/rules/evaluate
func (s *Server) handleEvaluateRule(w http.ResponseWriter, r *http.Request) {
	var req evaluateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Rule) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "rule is required")
		return
	}
	field, ok := req.Field.toField()
	if !ok {
		BadRequestError(w, r, ErrCodeInvalidRole, "field.role must be one of other, checkbox, radio or select")
		return
	}

	passed, err := s.engine.EvaluateRule(req.Rule, req.Value, field)
	if err != nil {
		RuleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluateRuleResponse{Rule: strings.TrimSpace(req.Rule), Passed: passed})
}

// handleEvaluateChain handles POST /v1/chains/evaluate
func (s *Server) handleEvaluateChain(w http.ResponseWriter, r *http.Request) {
	var req evaluateChainRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Chain) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "chain is required")
		return
	}
	field, ok := req.Field.toField()
	if !ok {
		BadRequestError(w, r, ErrCodeInvalidRole, "field.role must be one of other, checkbox, radio or select")
		return
	}

	outcome, err := s.engine.EvaluateChain(req.Chain, req.Value, field)
	if err != nil {
		RuleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
