package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64(t *testing.T) {
	var v struct {
		A FlexUint64 `json:"a"`
		B FlexUint64 `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 7, "b": " 12 "}`), &v))
	assert.Equal(t, uint64(7), v.A.Uint64())
	assert.Equal(t, uint64(12), v.B.Uint64())

	require.NoError(t, json.Unmarshal([]byte(`{"a": null}`), &v))
	assert.Zero(t, v.A)

	for _, bad := range []string{`{"a": "x"}`, `{"a": true}`, `{"a": -1}`, `{"a": 2.5}`, `{"a": "-3"}`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &v), bad)
	}
}

func TestFlexListAcceptsObjectOrArray(t *testing.T) {
	var list FlexList[json.RawMessage]
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1}`), &list))
	assert.Len(t, list.Slice(), 1)

	require.NoError(t, json.Unmarshal([]byte(`[{"id": 1}, {"id": 2}]`), &list))
	assert.Len(t, list.Slice(), 2)
}

func TestJSONText(t *testing.T) {
	var v struct {
		Items JSONText `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"items": "[{\"id\": 1}]"}`), &v))
	assert.Equal(t, `[{"id": 1}]`, v.Items.String())

	require.NoError(t, json.Unmarshal([]byte(`{"items": [{"id": 1}]}`), &v))
	assert.Equal(t, `[{"id": 1}]`, v.Items.String())

	require.NoError(t, json.Unmarshal([]byte(`{"items": true}`), &v))
	assert.Equal(t, "true", v.Items.String())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "already exists")
	err.Add("email", "invalid")
	err.Add("type", "unknown")

	assert.False(t, err.Empty())
	assert.Equal(t, "validation failed: email: already exists; invalid, type: unknown", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(error(err), &target))
}
