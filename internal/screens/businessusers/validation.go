package businessusers

import "business-console/internal/common/validation"

// GetFormSchema takes the gender vocabulary from configuration.
func GetFormSchema(genders []string) validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "phone", "gender"},
		Properties: map[string]validation.Property{
			"name": {Type: "string", Label: "Name", MaxLength: validation.IntPtr(100)},
			"phone": {
				Type:    "string",
				Label:   "Phone",
				Pattern: validation.StringPtr(validation.PhonePattern),
				Message: "Please enter a valid phone number",
			},
			"gender":      {Type: "string", Label: "Gender", Enum: genders},
			"business_id": {Type: "integer", Label: "Business", Minimum: validation.FloatPtr(0)},
		},
		AdditionalProperties: false,
	}
}
