package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adminSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"name":        {Type: "string", Label: "Name", MaxLength: IntPtr(80)},
			"email":       {Type: "string", Label: "Email", Pattern: StringPtr(EmailPattern), Message: "Please enter a valid email"},
			"phone":       {Type: "string", Label: "Phone", Pattern: StringPtr(PhonePattern), Message: "Please enter a valid phone number"},
			"business_id": {Type: "integer", Label: "Business", Minimum: FloatPtr(1)},
			"active":      {Type: "boolean"},
			"gender":      {Type: "string", Enum: []string{"male", "female"}},
		},
		Required: []string{"name", "phone", "business_id"},
	}
}

func TestValidateInput_Valid(t *testing.T) {
	result := ValidateInput(map[string]interface{}{
		"name":        "Hari",
		"email":       "hari.b@example.com",
		"phone":       "9812345678",
		"business_id": int64(4),
		"active":      true,
	}, adminSchema())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInput_EmptyRequiredString(t *testing.T) {
	result := ValidateInput(map[string]interface{}{
		"name":        "  ",
		"phone":       "",
		"business_id": int64(4),
	}, adminSchema())

	assert.False(t, result.Valid)
	assert.Equal(t, map[string]string{
		"name":  "Name is required",
		"phone": "Phone is required",
	}, result.FieldErrors())
}

func TestValidateInput_FieldRules(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
		code  string
		msg   string
	}{
		{"bad phone prefix", "phone", "9512345678", "PATTERN_MISMATCH", "Please enter a valid phone number"},
		{"short phone", "phone", "98123", "PATTERN_MISMATCH", "Please enter a valid phone number"},
		{"bad email", "email", "not-an-email", "PATTERN_MISMATCH", "Please enter a valid email"},
		{"business below minimum", "business_id", int64(0), "MINIMUM_VIOLATION", "Business must be at least 1"},
		{"business wrong type", "business_id", "4", "INVALID_TYPE", "Business: expected whole number, got string"},
		{"gender outside enum", "gender", "robot", "INVALID_ENUM_VALUE", "gender must be one of male, female"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := map[string]interface{}{"name": "Hari", "phone": "9812345678", "business_id": int64(4)}
			input[tt.field] = tt.value

			result := ValidateInput(input, adminSchema())
			assert.False(t, result.Valid)
			if assert.Len(t, result.Errors, 1) {
				assert.Equal(t, tt.field, result.Errors[0].Field)
				assert.Equal(t, tt.code, result.Errors[0].Code)
				assert.Equal(t, tt.msg, result.Errors[0].Message)
			}
		})
	}
}

func TestValidateInput_ExtraField(t *testing.T) {
	input := map[string]interface{}{"name": "Hari", "phone": "9812345678", "business_id": int64(4), "token": "x"}

	result := ValidateInput(input, adminSchema())
	assert.True(t, result.HasErrors("token"))

	schema := adminSchema()
	schema.AdditionalProperties = true
	assert.True(t, ValidateInput(input, schema).Valid)
}

func TestFieldHelpers(t *testing.T) {
	assert.True(t, ValidatePhone("9612345678"))
	assert.True(t, ValidatePhone("9712345678"))
	assert.False(t, ValidatePhone("981234567"))
	assert.False(t, ValidatePhone("+9779812345678"))

	assert.True(t, ValidateEmail("shop.owner@mail.com.np"))
	assert.False(t, ValidateEmail("owner@"))

	assert.True(t, ValidatePAN("123456789"))
	assert.False(t, ValidatePAN("12345678"))
}

func TestGetErrorMessages(t *testing.T) {
	result := ValidateInput(map[string]interface{}{}, adminSchema())
	assert.Equal(t, []string{"Name is required", "Phone is required", "Business is required"}, result.GetErrorMessages())
}
