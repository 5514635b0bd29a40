package targeting

import (
	"testing"
)

func TestEvaluate_EmptyExpression(t *testing.T) {
	for _, expr := range []string{"", "   "} {
		result, err := Evaluate(expr, Data{"country": "ES"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result {
			t.Errorf("Expected true for empty expression %q", expr)
		}
	}
}

func TestEvaluate_FormValues(t *testing.T) {
	expression := `{"==": [{"var": "contact"}, "phone"]}`

	tests := []struct {
		name     string
		values   map[string]string
		expected bool
	}{
		{"phone contact", map[string]string{"contact": "phone"}, true},
		{"email contact", map[string]string{"contact": "email"}, false},
		{"missing value", map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(expression, FormData(tt.values, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestFormData_CheckedStatesWin(t *testing.T) {
	data := FormData(map[string]string{CheckedKey: "yes"}, map[string]bool{"terms": true})
	states, ok := data[CheckedKey].(map[string]any)
	if !ok {
		t.Fatalf("expected checked states under %q, got %#v", CheckedKey, data[CheckedKey])
	}
	if states["terms"] != true {
		t.Errorf("expected terms to be checked, got %v", states["terms"])
	}
}

func TestEvaluate_CheckedState(t *testing.T) {
	expression := `{"==": [{"var": "checked.newsletter"}, true]}`

	result, err := Evaluate(expression, FormData(nil, map[string]bool{"newsletter": true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Error("Expected true when newsletter is checked")
	}

	result, err = Evaluate(expression, FormData(nil, map[string]bool{"newsletter": false}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result {
		t.Error("Expected false when newsletter is unchecked")
	}
}

func TestEvaluate_OrCondition(t *testing.T) {
	expression := `{"or": [
		{"in": [{"var": "country"}, ["ES", "PT"]]},
		{"==": [{"var": "checked.international"}, true]}
	]}`

	tests := []struct {
		name     string
		values   map[string]string
		checked  map[string]bool
		expected bool
	}{
		{"iberian", map[string]string{"country": "ES"}, nil, true},
		{"international", map[string]string{"country": "FR"}, map[string]bool{"international": true}, true},
		{"neither", map[string]string{"country": "FR"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(expression, FormData(tt.values, tt.checked))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestEvaluate_InvalidJSON(t *testing.T) {
	_, err := Evaluate("not valid json", Data{})
	if err != ErrInvalidExpression {
		t.Errorf("Expected ErrInvalidExpression, got %v", err)
	}
}

func TestValidateExpression(t *testing.T) {
	valid := []string{
		`{"==": [{"var": "plan"}, "premium"]}`,
		`{"and": [true, true]}`,
		`{"!": false}`,
		`{"in": [{"var": "x"}, ["a", "b", "c"]]}`,
	}
	for _, expr := range valid {
		if err := ValidateExpression(expr); err != nil {
			t.Errorf("ValidateExpression(%s) = %v, want nil", expr, err)
		}
	}

	if err := ValidateExpression("  "); err != ErrEmptyExpression {
		t.Errorf("Expected ErrEmptyExpression, got %v", err)
	}
	for _, expr := range []string{"not json", `{incomplete json`} {
		if err := ValidateExpression(expr); err == nil {
			t.Errorf("Expected error for %q", expr)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	cases := map[string]struct {
		in   any
		want bool
	}{
		"nil":        {nil, false},
		"false":      {false, false},
		"zero":       {0.0, false},
		"number":     {2.0, true},
		"empty":      {"", false},
		"text":       {"x", true},
		"empty list": {[]any{}, false},
		"list":       {[]any{1.0}, true},
		"empty map":  {map[string]any{}, false},
		"non-empty":  {map[string]any{"a": 1.0}, true},
	}
	for name, tc := range cases {
		if got := isTruthy(tc.in); got != tc.want {
			t.Errorf("%s: isTruthy(%v) = %v, want %v", name, tc.in, got, tc.want)
		}
	}
}
