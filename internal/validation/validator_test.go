package validation

import (
	"strings"
	"testing"

	"github.com/TimurManjosov/govtag/internal/store"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantValid   bool
		wantMessage string
	}{
		{name: "valid alphanumeric", input: "signup_2024", wantValid: true},
		{name: "valid with hyphen", input: "contact-form", wantValid: true},
		{name: "empty", input: "", wantMessage: "Name is required"},
		{name: "whitespace only", input: "   ", wantMessage: "Name is required"},
		{name: "too long", input: strings.Repeat("a", 65), wantMessage: "Name must not exceed 64 characters"},
		{name: "exactly 64 chars", input: strings.Repeat("a", 64), wantValid: true},
		{
			name:        "contains spaces",
			input:       "sign up",
			wantMessage: "Name must contain only alphanumeric characters, underscores, and hyphens",
		},
		{
			name:        "contains period",
			input:       "user.email",
			wantMessage: "Name must contain only alphanumeric characters, underscores, and hyphens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateName("name", tt.input)
			if result.Valid != tt.wantValid {
				t.Errorf("ValidateName(%q) valid = %v, want %v", tt.input, result.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				if msg, ok := result.Errors["name"]; !ok || msg != tt.wantMessage {
					t.Errorf("ValidateName(%q) message = %q, want %q", tt.input, msg, tt.wantMessage)
				}
			}
		})
	}
}

func TestValidateRuleChain(t *testing.T) {
	tests := []struct {
		name       string
		chain      string
		wantValid  bool
		wantPrefix string
	}{
		{name: "single rule", chain: "required", wantValid: true},
		{name: "chain", chain: "required#digits(5)#rangenumbers(1,99999)", wantValid: true},
		{name: "date bound", chain: "min(date;01/01/2020;DD/MM/YYYY)", wantValid: true},
		{name: "empty", chain: "", wantPrefix: "Rules are required"},
		{name: "unknown rule", chain: "required#frobnicate", wantPrefix: "Invalid rule chain: "},
		{name: "unterminated group", chain: "minlength(3", wantPrefix: "Invalid rule chain: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRuleChain("rules", tt.chain)
			if result.Valid != tt.wantValid {
				t.Fatalf("ValidateRuleChain(%q) valid = %v, want %v (%v)", tt.chain, result.Valid, tt.wantValid, result.Errors)
			}
			if !tt.wantValid && !strings.HasPrefix(result.Errors["rules"], tt.wantPrefix) {
				t.Errorf("ValidateRuleChain(%q) message = %q, want prefix %q", tt.chain, result.Errors["rules"], tt.wantPrefix)
			}
		})
	}
}

func TestValidateEngineConstraint(t *testing.T) {
	tests := []struct {
		constraint string
		wantValid  bool
	}{
		{constraint: "", wantValid: true},
		{constraint: "^1.0", wantValid: true},
		{constraint: ">= 1.0.0, < 2.0.0", wantValid: true},
		{constraint: "^2.0", wantValid: false},
		{constraint: "not-a-version", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			result := ValidateEngineConstraint(tt.constraint)
			if result.Valid != tt.wantValid {
				t.Errorf("ValidateEngineConstraint(%q) valid = %v, want %v (%v)", tt.constraint, result.Valid, tt.wantValid, result.Errors)
			}
		})
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   store.Field
		wantKey string
	}{
		{name: "bad role", field: store.Field{Name: "a", Rules: "required", Role: "slider"}, wantKey: "f.role"},
		{name: "bad condition", field: store.Field{Name: "a", Rules: "required", When: "{oops"}, wantKey: "f.when"},
		{name: "bad rules", field: store.Field{Name: "a", Rules: "nope"}, wantKey: "f.rules"},
		{name: "bad name", field: store.Field{Name: "a b", Rules: "required"}, wantKey: "f.name"},
		{
			name:    "reserved checked name",
			field:   store.Field{Name: "checked", Rules: "required"},
			wantKey: "f.name",
		},
		{
			name:    "long message",
			field:   store.Field{Name: "a", Rules: "required", ErrorMessage: strings.Repeat("x", MaxMessageLength+1)},
			wantKey: "f.messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateField("f", tt.field)
			if result.Valid {
				t.Fatalf("ValidateField(%+v) should be invalid", tt.field)
			}
			if _, ok := result.Errors[tt.wantKey]; !ok {
				t.Errorf("expected error under %q, got %v", tt.wantKey, result.Errors)
			}
		})
	}

	ok := ValidateField("f", store.Field{Name: "terms", Rules: "required", Role: "checkbox", When: `{"var": "country"}`})
	if !ok.Valid {
		t.Errorf("expected valid field, got %v", ok.Errors)
	}
}

func TestValidateForm(t *testing.T) {
	valid := store.UpsertParams{
		Name:   "signup",
		Engine: "^1.0",
		Fields: []store.Field{
			{Name: "email", Rules: "required#email"},
			{Name: "age", Rules: "digits#min(18)"},
		},
	}
	if result := ValidateForm(valid); !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}

	dup := valid
	dup.Fields = append([]store.Field{}, valid.Fields...)
	dup.Fields = append(dup.Fields, store.Field{Name: "email", Rules: "required"})
	result := ValidateForm(dup)
	if result.Valid {
		t.Fatal("expected duplicate field names to be rejected")
	}
	if msg := result.Errors["fields[2].name"]; !strings.Contains(msg, "fields[0]") {
		t.Errorf("duplicate message = %q", msg)
	}

	tooMany := store.UpsertParams{Name: "big"}
	for i := 0; i <= MaxFields; i++ {
		tooMany.Fields = append(tooMany.Fields, store.Field{Name: "f", Rules: "required"})
	}
	if _, ok := ValidateForm(tooMany).Errors["fields"]; !ok {
		t.Error("expected field count limit")
	}

	noName := store.UpsertParams{Description: strings.Repeat("d", MaxDescriptionLength+1)}
	result = ValidateForm(noName)
	if result.Errors["name"] != "Name is required" {
		t.Errorf("name error = %q", result.Errors["name"])
	}
	if result.Errors["description"] == "" {
		t.Error("expected description length error")
	}
}
