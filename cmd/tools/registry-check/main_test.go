package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-console/internal/common/errors"
)

var registryFile = filepath.Join("..", "..", "..", "configs", "resource-registry.json")

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"validate", "-path", registryFile}, &out))
	assert.Contains(t, out.String(), "Registry validation passed.")
}

func TestValidate_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"resources":[{"id":"x","service":"tertiary","path":"x"}]}`), 0o644))

	err := run([]string{"validate", "-path", path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service must be primary or applicant")
	assert.Contains(t, err.Error(), "path must start with /")
}

func TestList_ByTag(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"list", "-path", registryFile, "-tag", "ledger"}, &out))

	assert.Contains(t, out.String(), "business-cashflows")
	assert.Contains(t, out.String(), "service_type:enum")
	assert.NotContains(t, out.String(), "applicants")
}

func TestPayload(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"remark":"refund"}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"remark":"refund","amount":5}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"payload", "-path", registryFile, "-resource", "business-cashflows", "-file", good}, &out))
	assert.Contains(t, out.String(), "Payload is valid for business-cashflows.")

	err := run([]string{"payload", "-path", registryFile, "-resource", "business-cashflows", "-file", bad}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))

	err = run([]string{"payload", "-path", registryFile, "-resource", "nope", "-file", good}, &bytes.Buffer{})
	assert.EqualError(t, err, "resource nope not found")
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"add"}, &out)
	assert.EqualError(t, err, `unknown command "add"`)
	assert.Contains(t, out.String(), "Usage: registry-check")
}
