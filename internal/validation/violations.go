package validation

import (
	"errors"
	"strings"
)

// Violation is a single failed check on a named field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is returned by every Validate function on failure.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, violation.Field+" "+violation.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Any reports whether at least one check failed.
func (v Violations) Any() bool {
	return len(v) > 0
}

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	for _, violation := range v {
		if violation.Field == field {
			return true
		}
	}
	return false
}

// Fields lists the violated fields in report order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, violation := range v {
		fields = append(fields, violation.Field)
	}
	return fields
}

func (v *Violations) add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

func (v Violations) dedupe() Violations {
	seen := make(map[Violation]struct{}, len(v))
	out := make(Violations, 0, len(v))
	for _, violation := range v {
		if _, ok := seen[violation]; ok {
			continue
		}
		seen[violation] = struct{}{}
		out = append(out, violation)
	}
	return out
}

// AsViolations extracts Violations from err.
func AsViolations(err error) (Violations, bool) {
	var v Violations
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
