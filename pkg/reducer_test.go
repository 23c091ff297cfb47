package dhall

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducer(t *testing.T) {
	cases := []struct {
		data   string
		typ    string
		native any
	}{
		{"True", "Bool", true},
		{"42", "Natural", int64(42)},
		{"+42", "Integer", int64(42)},
		{"-42", "Integer", int64(-42)},
		{"-(7)", "Integer", int64(-7)},
		{"- 1.5", "Double", -1.5},
		{"- -9223372036854775807", "Integer", int64(9223372036854775807)},
		{`"text"`, "Text", "text"},
		{"[1, 2, 3]", "List Natural", []any{int64(1), int64(2), int64(3)}},
		{"[+1, -2]", "List Integer", []any{int64(1), int64(-2)}},
		{"[] : List Text", "List Text", []any{}},
		{"[]", "List ?", []any{}},
		{"[[1], [] : List Natural]", "List (List Natural)", []any{[]any{int64(1)}, []any{}}},
		{"None Natural", "Optional Natural", nil},
		{"Some [1]", "Optional (List Natural)", []any{int64(1)}},
		{"[Some 1, None Natural]", "List (Optional Natural)", []any{int64(1), nil}},
		{"1 : Natural", "Natural", int64(1)},
		{"{=}", "{}", Map{}},
		{
			`{ a = 1, b = { c = "x" } }`,
			"{ a : Natural, b : { c : Text } }",
			Map{{"a", int64(1)}, {"b", Map{{"c", "x"}}}},
		},
		{
			"[{ a = 1, b = True }, { b = False, a = 2 }]",
			"List { a : Natural, b : Bool }",
			[]any{Map{{"a", int64(1)}, {"b", true}}, Map{{"b", false}, {"a", int64(2)}}},
		},
		{
			"{ x = None { y : Text } } : { x : Optional { y : Text } }",
			"{ x : Optional { y : Text } }",
			Map{{"x", nil}},
		},
	}

	for _, c := range cases {
		v, err := DecodeValue(c.data)
		require.NoError(t, err, c.data)

		assert.Equal(t, c.typ, v.Type().String(), c.data)
		assert.Equal(t, c.native, ToNative(v), c.data)
	}
}

func TestReducerFailures(t *testing.T) {
	cases := []struct {
		data string
		code ErrorCode
	}{
		{"[1, -2]", CodeMixedSign},
		{"[Some 1, Some -1]", CodeMixedSign},
		{"[1, True]", CodeMixedList},
		{`[{ a = 1 }, { b = 1 }]`, CodeMixedList},
		{"[[1], []]", CodeEmptyList},
		{"[1] : List Text", CodeMixedList},
		{"[1] : Optional Natural", CodeTypeMismatch},
		{"1 : Integer", CodeTypeMismatch},
		{"-True", CodeUnsupported},
		{"x", CodeUnsupported},
		{"{ a = y }", CodeUnsupported},
		{"- -9223372036854775808", CodeOutOfRange},
		{"[- -9223372036854775808]", CodeOutOfRange},
	}

	for _, c := range cases {
		_, err := DecodeValue(c.data)
		require.Error(t, err, c.data)
		assert.ErrorIs(t, err, ErrReduce, c.data)

		var e *Error
		require.ErrorAs(t, err, &e, c.data)
		assert.Equal(t, c.code, e.Code, c.data)
	}
}

func TestReducerMismatchLocation(t *testing.T) {
	_, err := DecodeValue("[1,\n  -2]")

	var e *Error
	require.ErrorAs(t, err, &e)
	require.NotNil(t, e.Loc)
	assert.Equal(t, 2, e.Loc.Line)
	assert.Equal(t, 3, e.Loc.Col)
	assert.Equal(t, "[1]", e.Path)
}

func TestReducerDoubles(t *testing.T) {
	v, err := DecodeValue("[NaN, Infinity, -Infinity, 1e3]")
	require.NoError(t, err)

	items := ToNative(v).([]any)
	require.Len(t, items, 4)
	assert.True(t, math.IsNaN(items[0].(float64)))
	assert.True(t, math.IsInf(items[1].(float64), 1))
	assert.True(t, math.IsInf(items[2].(float64), -1))
	assert.Equal(t, 1000.0, items[3])
}

func TestReduceBadExpr(t *testing.T) {
	parseErr := &Error{Kind: ParseError, Code: CodeUnexpectedToken}

	_, err := Reduce(&BadExpr{Err: parseErr})
	assert.Same(t, parseErr, err)

	_, err = Reduce(nil)
	assert.ErrorIs(t, err, ErrReduce)
}
