// Package validation checks form values against a declarative field schema.
//
// A Schema lists fields in display order, each with an ordered list of rules.
// Validate reports the first failing rule per field, so every form shares the
// same error placement logic instead of repeating it.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Check reports whether a single (already trimmed) value is acceptable.
type Check func(value string) bool

// Rule pairs a check with the message shown when it fails.
type Rule struct {
	Name    string
	Check   Check
	Message string
}

// Field is one schema entry.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered list of fields.
type Schema []Field

// FieldError is a failed rule for one field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors holds at most one FieldError per field, in schema order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// For returns the error for field, if any.
func (e Errors) For(field string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Validate checks values against the schema. A nil error means every field
// passed. Fields without a Required rule are skipped when empty.
func (s Schema) Validate(values map[string]string) error {
	var errs Errors

	for _, field := range s {
		value := strings.TrimSpace(values[field.Name])
		if value == "" && !field.required() {
			continue
		}
		for _, rule := range field.Rules {
			if !rule.Check(value) {
				errs = append(errs, FieldError{Field: field.Name, Rule: rule.Name, Message: rule.Message})
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateForm is Validate for url.Values (first value per key).
func (s Schema) ValidateForm(form url.Values) error {
	values := make(map[string]string, len(form))
	for k := range form {
		values[k] = form.Get(k)
	}
	return s.Validate(values)
}

func (f Field) required() bool {
	return slices.ContainsFunc(f.Rules, func(r Rule) bool { return r.Name == "required" })
}

func Required(message string) Rule {
	return Rule{Name: "required", Message: message, Check: func(v string) bool {
		return v != ""
	}}
}

func MinLength(n int, message string) Rule {
	return Rule{Name: "minlength", Message: message, Check: func(v string) bool {
		return utf8.RuneCountInString(v) >= n
	}}
}

func MaxLength(n int, message string) Rule {
	return Rule{Name: "maxlength", Message: message, Check: func(v string) bool {
		return utf8.RuneCountInString(v) <= n
	}}
}

func OneOf(message string, allowed ...string) Rule {
	return Rule{Name: "oneof", Message: message, Check: func(v string) bool {
		return slices.Contains(allowed, strings.ToLower(v))
	}}
}

// URL accepts absolute http(s) URLs and server-relative paths.
func URL(message string) Rule {
	return Rule{Name: "url", Message: message, Check: func(v string) bool {
		u, err := url.Parse(v)
		if err != nil {
			return false
		}
		if u.IsAbs() {
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		}
		return strings.HasPrefix(v, "/")
	}}
}

func Matches(re *regexp.Regexp, message string) Rule {
	return Rule{Name: "matches", Message: message, Check: re.MatchString}
}
