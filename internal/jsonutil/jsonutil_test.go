package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsHTMLAndHasNoTrailingNewline(t *testing.T) {
	b, err := Marshal(map[string]string{"return_url": "https://shop.example/ok?a=1&b=<2>"})
	require.NoError(t, err)
	assert.Equal(t, `{"return_url":"https://shop.example/ok?a=1&b=<2>"}`, string(b))
}

func TestUnmarshalUsesNumbers(t *testing.T) {
	var out map[string]any
	require.NoError(t, Unmarshal([]byte(`{"purchase_amount": 15000, "rate": 1.5}`), &out))

	n, ok := out["purchase_amount"].(json.Number)
	require.True(t, ok, "expected json.Number, got %T", out["purchase_amount"])
	v, err := n.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(15000), v)
	assert.Equal(t, json.Number("1.5"), out["rate"])
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"id":"payment_1"}`)))
	assert.False(t, Valid([]byte(`<html>`)))
}
