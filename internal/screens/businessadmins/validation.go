package businessadmins

import "business-console/internal/common/validation"

// MinPasswordLength applies to passwords set from the settings page.
const MinPasswordLength = 6

func GetFormSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "email", "phone", "business_id"},
		Properties: map[string]validation.Property{
			"name": {Type: "string", Label: "Name", MaxLength: validation.IntPtr(100)},
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
			"business_id": {
				Type:    "integer",
				Label:   "Business",
				Minimum: validation.FloatPtr(1),
				Message: "Please choose a business",
			},
		},
		AdditionalProperties: false,
	}
}

func GetPasswordSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"password", "confirm"},
		Properties: map[string]validation.Property{
			"password": {
				Type:      "string",
				Label:     "Password",
				MinLength: validation.IntPtr(MinPasswordLength),
			},
			"confirm": {Type: "string", Label: "Confirm password"},
		},
	}
}
