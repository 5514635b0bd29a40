// Package validation checks form definitions before they are stored: names,
// rule chain syntax, control roles, conditions and the engine constraint.
// It never evaluates rules against values.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/rules"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/targeting"
)

const (
	// MaxNameLength is the maximum length for form and field names
	MaxNameLength = 64
	// MaxDescriptionLength is the maximum length for form descriptions
	MaxDescriptionLength = 500
	// MaxFields is the maximum number of fields per form
	MaxFields = 200
	// MaxMessageLength is the maximum length for custom field messages
	MaxMessageLength = 200
)

// namePattern matches alphanumeric characters, underscores, and hyphens
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidationResult holds the result of validation
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError adds a field error and marks the result as invalid
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	v.Errors[field] = message
}

// Merge combines another validation result into this one
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		v.AddError(field, message)
	}
}

// ValidateForm validates a complete form definition. Errors about a single
// field are keyed "fields[i].<attribute>".
func ValidateForm(params store.UpsertParams) *ValidationResult {
	result := NewValidationResult()

	result.Merge(ValidateName("name", params.Name))
	result.Merge(ValidateDescription(params.Description))
	result.Merge(ValidateEngineConstraint(params.Engine))

	if len(params.Fields) > MaxFields {
		result.AddError("fields", fmt.Sprintf("A form must not have more than %d fields", MaxFields))
		return result
	}

	seen := make(map[string]int, len(params.Fields))
	for i, f := range params.Fields {
		prefix := fmt.Sprintf("fields[%d]", i)
		result.Merge(ValidateField(prefix, f))
		if first, dup := seen[f.Name]; dup && f.Name != "" {
			result.AddError(prefix+".name", fmt.Sprintf("Duplicate field name %q (first used by fields[%d])", f.Name, first))
			continue
		}
		seen[f.Name] = i
	}
	return result
}

// ValidateField validates one field definition; prefix is prepended to every
// error key.
func ValidateField(prefix string, f store.Field) *ValidationResult {
	result := NewValidationResult()

	result.Merge(ValidateName(prefix+".name", f.Name))
	if strings.TrimSpace(f.Name) == targeting.CheckedKey {
		result.AddError(prefix+".name", fmt.Sprintf("Name %q is reserved for checked states in conditions", targeting.CheckedKey))
	}
	result.Merge(ValidateRuleChain(prefix+".rules", f.Rules))

	if _, ok := engine.ParseRole(f.Role); !ok {
		result.AddError(prefix+".role", "Role must be one of other, checkbox, radio or select")
	}

	if strings.TrimSpace(f.When) != "" {
		if err := targeting.ValidateExpression(f.When); err != nil {
			result.AddError(prefix+".when", "Condition must be valid JSON Logic")
		}
	}

	if utf8.RuneCountInString(f.OKMessage) > MaxMessageLength || utf8.RuneCountInString(f.ErrorMessage) > MaxMessageLength {
		result.AddError(prefix+".messages", fmt.Sprintf("Messages must not exceed %d characters", MaxMessageLength))
	}
	return result
}

// ValidateName validates a form or field name and reports problems under key.
func ValidateName(key, name string) *ValidationResult {
	result := NewValidationResult()
	name = strings.TrimSpace(name)

	if name == "" {
		result.AddError(key, "Name is required")
		return result
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		result.AddError(key, "Name must not exceed 64 characters")
		return result
	}

	if !namePattern.MatchString(name) {
		result.AddError(key, "Name must contain only alphanumeric characters, underscores, and hyphens")
		return result
	}

	return result
}

// ValidateDescription validates a form description
func ValidateDescription(description string) *ValidationResult {
	result := NewValidationResult()

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		result.AddError("description", "Description must not exceed 500 characters")
	}

	return result
}

// ValidateRuleChain parses every token of chain. Argument values are only
// checked when the rule is evaluated.
func ValidateRuleChain(key, chain string) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(chain) == "" {
		result.AddError(key, "Rules are required")
		return result
	}

	if _, err := rules.ParseChain(chain); err != nil {
		result.AddError(key, "Invalid rule chain: "+err.Error())
	}
	return result
}

// ValidateEngineConstraint checks that constraint is a semver constraint
// satisfied by the running engine. An empty constraint accepts any engine.
func ValidateEngineConstraint(constraint string) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(constraint) == "" {
		return result
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		result.AddError("engine", "Engine must be a semantic version constraint, e.g. ^1.0")
		return result
	}

	if !c.Check(semver.MustParse(engine.Version)) {
		result.AddError("engine", fmt.Sprintf("Engine constraint %q is not satisfied by engine %s", constraint, engine.Version))
	}
	return result
}
