package applicants

import "business-console/internal/common/validation"

func GetFormSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "phone", "business_name", "business_email"},
		Properties: map[string]validation.Property{
			"name": {
				Type:      "string",
				Label:     "Name",
				MaxLength: validation.IntPtr(100),
			},
			"phone": {
				Type:    "string",
				Label:   "Phone",
				Pattern: validation.StringPtr(validation.PhonePattern),
				Message: "Please enter a valid phone number",
			},
			"business_name": {
				Type:      "string",
				Label:     "Business name",
				MaxLength: validation.IntPtr(150),
			},
			"business_email": {
				Type:    "string",
				Label:   "Business email",
				Pattern: validation.StringPtr(validation.EmailPattern),
				Message: "Please enter a valid email",
			},
		},
		AdditionalProperties: false,
	}
}

func GetRemarksSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"remarks"},
		Properties: map[string]validation.Property{
			"remarks": {
				Type:      "string",
				Label:     "Remarks",
				MaxLength: validation.IntPtr(500),
			},
		},
	}
}
