package fingerprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDeterministic(t *testing.T) {
	vars := map[string]any{"limit": float64(10), "page": float64(1)}

	fp1, err := Request("query GetProducts { products { id } }", vars)
	require.NoError(t, err)
	fp2, err := Request("query GetProducts { products { id } }", vars)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64) // sha256 hex
}

func TestRequestFieldOrderIndependent(t *testing.T) {
	// Decode the same variables from differently ordered JSON documents
	var varsA, varsB map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"limit":10,"page":1,"filter":{"b":2,"a":1}}`), &varsA))
	require.NoError(t, json.Unmarshal([]byte(`{"filter":{"a":1,"b":2},"page":1,"limit":10}`), &varsB))

	fpA, err := Request("query Q { x }", varsA)
	require.NoError(t, err)
	fpB, err := Request("query Q { x }", varsB)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}

func TestRequestDistinguishesInputs(t *testing.T) {
	fp1, err := Request("query A { x }", nil)
	require.NoError(t, err)
	fp2, err := Request("query B { x }", nil)
	require.NoError(t, err)
	fp3, err := Request("query A { x }", map[string]any{"limit": float64(5)})
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
}

func TestRequestNilAndEmptyVariablesEqual(t *testing.T) {
	fp1, err := Request("query Q { x }", nil)
	require.NoError(t, err)
	fp2, err := Request("query Q { x }", map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
}

func TestCanonicalSortsNestedKeys(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"z":{"b":[{"y":1,"x":2}],"a":null},"a":true}`), &doc))

	out, err := Canonical(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":true,"z":{"a":null,"b":[{"x":2,"y":1}]}}`, string(out))
}

func TestCanonicalRawMessage(t *testing.T) {
	out, err := Canonical(map[string]any{
		"vars": json.RawMessage(`{"b":1,"a":2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"vars":{"a":2,"b":1}}`, string(out))

	_, err = Canonical(json.RawMessage(`{not json`))
	assert.Error(t, err)
}
