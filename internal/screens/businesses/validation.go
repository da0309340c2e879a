package businesses

import "business-console/internal/common/validation"

const panMessage = "PAN no. must be exactly 9 characters"

func GetFormSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "email", "phone", "address", "pan_no"},
		Properties: map[string]validation.Property{
			"name": {Type: "string", Label: "Name", MaxLength: validation.IntPtr(150)},
			"email": {
				Type:    "string",
				Label:   "Email",
				Pattern: validation.StringPtr(validation.EmailPattern),
				Message: "Please enter a valid email",
			},
			"phone": {
				Type:    "string",
				Label:   "Phone",
				Pattern: validation.StringPtr(validation.PhonePattern),
				Message: "Please enter a valid phone number",
			},
			"address": {Type: "string", Label: "Address", MaxLength: validation.IntPtr(250)},
			"pan_no": {
				Type:      "string",
				Label:     "PAN no.",
				MinLength: validation.IntPtr(validation.PANLength),
				MaxLength: validation.IntPtr(validation.PANLength),
				Message:   panMessage,
			},
			"registered_date": {
				Type:    "string",
				Label:   "Registered date",
				Pattern: validation.StringPtr(`^\d{4}-\d{2}-\d{2}`),
				Message: "Registered date must be a date",
			},
		},
		AdditionalProperties: false,
	}
}

// skipKept drops errors on placeholder values left untouched; they are
// checked once someone edits them.
func skipKept(r *validation.ValidationResult, kept map[string]bool) *validation.ValidationResult {
	if r.Valid || len(kept) == 0 {
		return r
	}
	out := &validation.ValidationResult{Errors: []validation.ValidationError{}}
	for _, e := range r.Errors {
		if !kept[e.Field] {
			out.Errors = append(out.Errors, e)
		}
	}
	out.Valid = len(out.Errors) == 0
	return out
}
