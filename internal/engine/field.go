package engine

import "strings"

// Role is the kind of form control a value was read from.
type Role string

const (
	RoleOther    Role = "other"
	RoleCheckbox Role = "checkbox"
	RoleRadio    Role = "radio"
	RoleSelect   Role = "select"
)

// ParseRole maps a role name to a Role. The empty string is RoleOther.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "", RoleOther:
		return RoleOther, true
	case RoleCheckbox, RoleRadio, RoleSelect:
		return r, true
	default:
		return RoleOther, false
	}
}

// FieldContext is the read-only view of a form control that the required
// rule needs. No other rule looks at it.
type FieldContext interface {
	Role() Role
	Checked() bool
}

// Field is a plain FieldContext.
type Field struct {
	Control   Role `json:"role,omitempty" yaml:"role,omitempty"`
	IsChecked bool `json:"checked,omitempty" yaml:"checked,omitempty"`
}

var _ FieldContext = Field{}

func (f Field) Role() Role {
	if f.Control == "" {
		return RoleOther
	}
	return f.Control
}

func (f Field) Checked() bool { return f.IsChecked }

func roleOf(field FieldContext) Role {
	if field == nil {
		return RoleOther
	}
	return field.Role()
}
