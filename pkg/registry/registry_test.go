package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-console/internal/common/config"
	"business-console/internal/common/errors"
	"business-console/internal/query"
)

const registryPath = "../../configs/resource-registry.json"

func TestLoadRegistry_Shipped(t *testing.T) {
	reg, err := LoadRegistry(registryPath)
	require.NoError(t, err)

	for _, id := range []string{"applicants", "businesses", "business-admins", "business-users", "business-cashflows", "users-cashflows"} {
		res, ok := reg.Resource(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, res.EnvelopeKey, id)
	}

	applicants, _ := reg.Resource("applicants")
	assert.Equal(t, 10, applicants.DefaultLimit)
	assert.Equal(t, "applicant", applicants.Service)

	businesses, _ := reg.Resource("businesses")
	assert.Equal(t, 20, businesses.DefaultLimit)

	_, ok := reg.Resource("invoices")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{
			name:   "missing id",
			doc:    `{"resources":[{"displayName":"X","service":"primary","path":"/x","envelopeKey":"x"}]}`,
			errMsg: "id is required",
		},
		{
			name: "duplicate id",
			doc: `{"resources":[
				{"id":"x","displayName":"X","service":"primary","path":"/x","envelopeKey":"x"},
				{"id":"x","displayName":"X","service":"primary","path":"/x","envelopeKey":"x"}]}`,
			errMsg: "duplicate id",
		},
		{
			name:   "unknown service",
			doc:    `{"resources":[{"id":"x","displayName":"X","service":"billing","path":"/x","envelopeKey":"x"}]}`,
			errMsg: "service must be primary or applicant",
		},
		{
			name:   "relative path",
			doc:    `{"resources":[{"id":"x","displayName":"X","service":"primary","path":"x","envelopeKey":"x"}]}`,
			errMsg: "path must start with /",
		},
		{
			name:   "bad filter kind",
			doc:    `{"resources":[{"id":"x","displayName":"X","service":"primary","path":"/x","envelopeKey":"x","filters":[{"name":"a","kind":"range"}]}]}`,
			errMsg: "unknown kind",
		},
		{
			name:   "bad schema",
			doc:    `{"resources":[{"id":"x","displayName":"X","service":"primary","path":"/x","envelopeKey":"x","inputSchema":{"type":42}}]}`,
			errMsg: "invalid inputSchema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestQuerySpec_ResolvesVocabulary(t *testing.T) {
	reg, err := LoadRegistry(registryPath)
	require.NoError(t, err)

	res, _ := reg.Resource("users-cashflows")
	vocab := config.VocabularyConfig{ServiceTypes: []string{"All", "Recharge", "Electricity"}}
	spec := res.QuerySpec(vocab)

	field, ok := spec.Field("service_type")
	require.True(t, ok)
	assert.Equal(t, query.Enum, field.Kind)
	assert.True(t, field.Lower)
	assert.Equal(t, []string{"All", "Recharge", "Electricity"}, field.Options)

	admins, _ := reg.Resource("business-admins")
	role, ok := admins.QuerySpec(vocab).Field("is_super_admin")
	require.True(t, ok)
	assert.Equal(t, query.Tri, role.Kind)
	assert.Equal(t, "SuperAdmin", role.YesLabel)
}

func TestValidatePayload(t *testing.T) {
	reg, err := LoadRegistry(registryPath)
	require.NoError(t, err)
	admins, _ := reg.Resource("business-admins")

	err = admins.ValidatePayload(map[string]interface{}{
		"name":           "Sita",
		"email":          "sita@acme.test",
		"phone":          "9841000000",
		"active":         true,
		"is_super_admin": false,
		"business_id":    7,
	})
	assert.NoError(t, err)

	err = admins.ValidatePayload(map[string]interface{}{
		"name":  "Sita",
		"email": "sita@acme.test",
		"phone": "1234",
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
	stdErr, _ := errors.AsStandard(err)
	assert.Contains(t, stdErr.Details, "business_id")
	assert.Contains(t, stdErr.Details, "phone")

	cashflows, _ := reg.Resource("users-cashflows")
	assert.NoError(t, cashflows.ValidatePayload(map[string]interface{}{"anything": 1}))
}
