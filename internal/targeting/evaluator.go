// Package targeting evaluates the conditions that decide whether a form field
// is validated at all. Conditions are JSON Logic (jsonlogic.com) expressions
// evaluated against the submitted form values.
package targeting

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"
)

// Data is the document a condition is evaluated against. Form validation
// exposes every submitted value under its field name and the checked state
// of checkboxes and radios under "checked", e.g.:
//
//	{"country": "ES", "checked": {"terms": true}}
//
// so that {"var": "country"} and {"var": "checked.terms"} both resolve.
type Data map[string]any

// CheckedKey is the Data key holding checked states. No form field may use
// it as its name.
const CheckedKey = "checked"

// ErrInvalidExpression is returned when an expression is not valid JSON Logic.
var ErrInvalidExpression = errors.New("invalid expression: not valid JSON Logic")

// ErrEmptyExpression is returned when an expression is empty or whitespace.
var ErrEmptyExpression = errors.New("invalid expression: empty or whitespace")

// FormData builds the condition document for a form submission.
func FormData(values map[string]string, checked map[string]bool) Data {
	data := make(Data, len(values)+1)
	for name, v := range values {
		data[name] = v
	}
	states := make(map[string]any, len(checked))
	for name, on := range checked {
		states[name] = on
	}
	data[CheckedKey] = states
	return data
}

// Evaluate evaluates a JSON Logic expression against data.
// An empty expression means "no condition" and always holds.
func Evaluate(expression string, data Data) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return true, nil
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return false, err
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), bytes.NewReader(dataBytes), &resultBuf); err != nil {
		return false, ErrInvalidExpression
	}

	var result any
	if err := json.Unmarshal(resultBuf.Bytes(), &result); err != nil {
		return false, err
	}
	return isTruthy(result), nil
}

// ValidateExpression checks if an expression is valid JSON Logic.
func ValidateExpression(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return ErrEmptyExpression
	}

	var rule any
	if err := json.Unmarshal([]byte(expression), &rule); err != nil {
		return ErrInvalidExpression
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(expression), strings.NewReader("{}"), &resultBuf); err != nil {
		return ErrInvalidExpression
	}
	return nil
}

// isTruthy follows JavaScript truthiness.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
