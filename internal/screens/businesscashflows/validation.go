package businesscashflows

import "business-console/internal/common/validation"

func GetRemarkSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"remark"},
		Properties: map[string]validation.Property{
			"remark": {Type: "string", Label: "Remark", MaxLength: validation.IntPtr(255)},
		},
		AdditionalProperties: false,
	}
}
