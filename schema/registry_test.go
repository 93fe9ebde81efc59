package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldHex = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func validBundle() map[string]any {
	return map[string]any{
		"docHash":   helloWorldHex,
		"sofi":      "123456",
		"publicKey": "MCowBQYDK2VwAyEA",
		"signature": "AQID",
		"maskNonce": 42,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDefaultRegistry_Kinds(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{KindBundle, KindVerificationReport}, r.List())

	s, ok := r.GetSchema(KindBundle)
	require.True(t, ok)
	assert.Contains(t, s, `"docHash"`)
	assert.Contains(t, s, `"required"`)

	_, ok = r.GetSchema("nope")
	assert.False(t, ok)
}

func TestRegistry_ValidateBundle(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	require.NoError(t, r.Validate(KindBundle, mustJSON(t, validBundle())))

	tests := []struct {
		mutate func(map[string]any)
		name   string
	}{
		{name: "missing signature", mutate: func(m map[string]any) { delete(m, "signature") }},
		{name: "missing sofi", mutate: func(m map[string]any) { delete(m, "sofi") }},
		{name: "uppercase hash", mutate: func(m map[string]any) { m["docHash"] = "B94D27B9934D3E08A52E52D7DA7DABFAC484EFE37A5380EE9088F7ACE2EFCDE9" }},
		{name: "short hash", mutate: func(m map[string]any) { m["docHash"] = "abc" }},
		{name: "empty sofi", mutate: func(m map[string]any) { m["sofi"] = "" }},
		{name: "negative nonce", mutate: func(m map[string]any) { m["maskNonce"] = -1 }},
		{name: "nonce overflow", mutate: func(m map[string]any) { m["maskNonce"] = 4294967296 }},
		{name: "unknown field", mutate: func(m map[string]any) { m["extra"] = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validBundle()
			tt.mutate(doc)

			err := r.Validate(KindBundle, mustJSON(t, doc))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %T", err)
			assert.NotEmpty(t, verr.Causes)
		})
	}
}

func TestRegistry_ValidateMalformed(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	err = r.Validate(KindBundle, []byte("{not json"))
	assert.ErrorContains(t, err, "not valid JSON")

	err = r.Validate("ledger", []byte("{}"))
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRegistry_ValidateReport(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	ok := `{"cryptographic": {"valid": true, "scheme": "ed25519"}}`
	require.NoError(t, r.Validate(KindVerificationReport, []byte(ok)))

	withPlausibility := `{"cryptographic": {"valid": false, "reason": "x"},
		"plausibility": {"isAuthentic": true, "verificationDetails": "fine"}}`
	require.NoError(t, r.Validate(KindVerificationReport, []byte(withPlausibility)))

	assert.Error(t, r.Validate(KindVerificationReport, []byte(`{"plausibility": null}`)))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("raw", `{"type": "object", "required": ["a"]}`))
	require.NoError(t, r.Register("map", map[string]interface{}{"type": "string"}))

	err := r.Register("raw", `{}`)
	assert.ErrorContains(t, err, "already registered")

	assert.Error(t, r.Register("bad", 42))
	assert.Error(t, r.Register("broken", `{"type": 5}`))

	assert.NoError(t, r.Validate("raw", []byte(`{"a": 1}`)))
	assert.Error(t, r.Validate("raw", []byte(`{}`)))
	assert.NoError(t, r.Validate("map", []byte(`"s"`)))
}

func TestRegistry_AllowAdditionalProperties(t *testing.T) {
	r, err := NewDefaultRegistry(WithAdditionalProperties(true))
	require.NoError(t, err)

	doc := validBundle()
	doc["extra"] = true
	assert.NoError(t, r.Validate(KindBundle, mustJSON(t, doc)))
}
