// Package validation checks submitted form values before they are sent to
// the backend.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field patterns shared by the entity forms.
const (
	PhonePattern = `^9[678]\d{8}$`
	EmailPattern = `^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`
	PANLength    = 9
)

var (
	phoneRe = regexp.MustCompile(PhonePattern)
	emailRe = regexp.MustCompile(EmailPattern)
)

// JSONSchema describes the fields of one form
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type      string   `json:"type"`
	Label     string   `json:"label,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	Pattern   *string  `json:"pattern,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Message   string   `json:"message,omitempty"` // replaces the generic pattern/length message
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks form input against schema. An empty string counts as
// a missing required field.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	errors := []ValidationError{}

	for _, requiredField := range schema.Required {
		v, exists := input[requiredField]
		if s, ok := v.(string); !exists || v == nil || (ok && strings.TrimSpace(s) == "") {
			errors = append(errors, ValidationError{
				Field:   requiredField,
				Message: fmt.Sprintf("%s is required", label(requiredField, schema.Properties[requiredField])),
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	fields := make([]string, 0, len(input))
	for name := range input {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, fieldName := range fields {
		value := input[fieldName]
		prop, exists := schema.Properties[fieldName]
		if !exists {
			if !schema.AdditionalProperties {
				errors = append(errors, ValidationError{
					Field:   fieldName,
					Message: "field not allowed in form",
					Code:    "EXTRA_FIELD",
				})
			}
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		errors = append(errors, validateField(fieldName, value, prop)...)
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateField(fieldName string, value interface{}, prop Property) []ValidationError {
	errors := []ValidationError{}
	name := label(fieldName, prop)

	if typeErr := validateType(value, prop.Type); typeErr != nil {
		return append(errors, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s: %s", name, typeErr.Error()),
			Code:    "INVALID_TYPE",
		})
	}

	if strVal, ok := value.(string); ok {
		n := len([]rune(strVal))
		if prop.MinLength != nil && n < *prop.MinLength {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: orDefault(prop.Message, fmt.Sprintf("%s must be at least %d characters", name, *prop.MinLength)),
				Code:    "MIN_LENGTH_VIOLATION",
			})
		}
		if prop.MaxLength != nil && n > *prop.MaxLength {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: orDefault(prop.Message, fmt.Sprintf("%s must be at most %d characters", name, *prop.MaxLength)),
				Code:    "MAX_LENGTH_VIOLATION",
			})
		}

		if prop.Pattern != nil {
			matched, err := regexp.MatchString(*prop.Pattern, strVal)
			if err != nil || !matched {
				errors = append(errors, ValidationError{
					Field:   fieldName,
					Message: orDefault(prop.Message, fmt.Sprintf("%s is not valid", name)),
					Code:    "PATTERN_MISMATCH",
				})
			}
		}

		if len(prop.Enum) > 0 && !contains(prop.Enum, strVal) {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must be one of %s", name, strings.Join(prop.Enum, ", ")),
				Code:    "INVALID_ENUM_VALUE",
			})
		}
	}

	if numVal, ok := toFloat(value); ok {
		if prop.Minimum != nil && numVal < *prop.Minimum {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: orDefault(prop.Message, fmt.Sprintf("%s must be at least %g", name, *prop.Minimum)),
				Code:    "MINIMUM_VIOLATION",
			})
		}
		if prop.Maximum != nil && numVal > *prop.Maximum {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: orDefault(prop.Message, fmt.Sprintf("%s must be at most %g", name, *prop.Maximum)),
				Code:    "MAXIMUM_VIOLATION",
			})
		}
	}

	return errors
}

func validateType(value interface{}, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected text, got %T", value)
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		switch value.(type) {
		case int, int32, int64:
		default:
			return fmt.Errorf("expected whole number, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected yes or no, got %T", value)
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func label(field string, prop Property) string {
	if prop.Label != "" {
		return prop.Label
	}
	return strings.ReplaceAll(field, "_", " ")
}

func orDefault(custom, fallback string) string {
	if custom != "" {
		return custom
	}
	return fallback
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = err.Message
	}
	return messages
}

// FieldErrors maps each field to its first error, for rendering next to
// the input.
func (vr *ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePhone accepts ten-digit mobile numbers starting 96, 97 or 98.
func ValidatePhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// ValidatePAN checks the fixed PAN length.
func ValidatePAN(pan string) bool {
	return len([]rune(pan)) == PANLength
}

// Helpers for building schemas.
func IntPtr(v int) *int           { return &v }
func FloatPtr(v float64) *float64 { return &v }
func StringPtr(v string) *string  { return &v }
