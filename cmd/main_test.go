package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.dhalldata.dev/pkg"
)

func TestReadJSON(t *testing.T) {
	got, err := readJSON(strings.NewReader(`{"keyA": 81, "keyB": true, "keyC": "value", "d": [1.5, null], "e": {}}`))
	require.NoError(t, err)

	assert.Equal(t, dhall.Map{
		{Key: "keyA", Value: int64(81)},
		{Key: "keyB", Value: true},
		{Key: "keyC", Value: "value"},
		{Key: "d", Value: []any{1.5, nil}},
		{Key: "e", Value: dhall.Map{}},
	}, got)

	_, err = readJSON(strings.NewReader(`{"a": `))
	assert.Error(t, err)
}

func TestJSONToDhallAndBack(t *testing.T) {
	v, err := readJSON(strings.NewReader(`{"keyA": 81, "keyB": true, "keyC": "value"}`))
	require.NoError(t, err)

	src, err := dhall.Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `{ keyA = 81, keyB = True, keyC = "value" }`, src)

	decoded, err := dhall.Decode(src)
	require.NoError(t, err)

	out, err := marshalJSON(decoded, false)
	require.NoError(t, err)
	assert.Equal(t, `{"keyA":81,"keyB":true,"keyC":"value"}`, string(out))

	out, err = marshalJSON(dhall.Map{{Key: "a", Value: []any{}}}, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": []\n}", string(out))
}
