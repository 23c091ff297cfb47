package dhall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNative(t *testing.T) {
	list, err := NewList(nil, Natural(1), Natural(2))
	require.NoError(t, err)

	empty, err := NewList(TextType)
	require.NoError(t, err)

	rec, err := NewRecord(
		Field{Name: "b", Value: Text("x")},
		Field{Name: "a", Value: list},
		Field{Name: "c", Value: None(NaturalType)},
		Field{Name: "d", Value: Some(Double(0.5))},
	)
	require.NoError(t, err)

	assert.Equal(t, true, ToNative(Bool(true)))
	assert.Equal(t, int64(3), ToNative(Natural(3)))
	assert.Equal(t, int64(-3), ToNative(Integer(-3)))
	assert.Equal(t, []any{}, ToNative(empty))
	assert.Equal(t, Map{
		{"b", "x"},
		{"a", []any{int64(1), int64(2)}},
		{"c", nil},
		{"d", 0.5},
	}, ToNative(rec))
	assert.Nil(t, ToNative(nil))
}

func TestMap(t *testing.T) {
	m := Map{{"b", 1}, {"a", 2}, {"c", 3}}

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = m.Get("z")
	assert.False(t, ok)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, Map{{"a", 2}, {"b", 1}, {"c", 3}}, m.Sorted())
	assert.Equal(t, Map{{"b", 1}, {"a", 2}, {"c", 3}}, m, "Sorted must not reorder the receiver")
}
