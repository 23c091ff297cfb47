package dhall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type config struct {
	Host    string            `dhall:"host"`
	Port    uint16            `dhall:"port,required"`
	Tags    []string          `dhall:"tags"`
	Timeout *float64          `dhall:"timeout"`
	Limits  map[string]int    `dhall:"limits"`
	Extra   any               `dhall:"extra"`
	Pair    [2]int            `dhall:"pair"`
	Nested  struct{ On bool } `dhall:"nested"`
	Ignored string            `dhall:"-"`
}

func TestUnmarshal(t *testing.T) {
	src := `{
		host = "localhost",
		port = 8080,
		tags = ["a", "b"],
		timeout = Some 1.5,
		limits = { cpu = 2, mem = -1 },
		extra = [True],
		pair = [+1, -2],
		nested = { On = True },
		Ignored = "x"
	}`

	var c config
	require.NoError(t, Unmarshal(src, &c))

	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, uint16(8080), c.Port)
	assert.Equal(t, []string{"a", "b"}, c.Tags)
	require.NotNil(t, c.Timeout)
	assert.Equal(t, 1.5, *c.Timeout)
	assert.Equal(t, map[string]int{"cpu": 2, "mem": -1}, c.Limits)
	assert.Equal(t, []any{true}, c.Extra)
	assert.Equal(t, [2]int{1, -2}, c.Pair)
	assert.True(t, c.Nested.On)
	assert.Empty(t, c.Ignored)
}

func TestUnmarshalNone(t *testing.T) {
	c := config{Tags: []string{"old"}}
	require.NoError(t, Unmarshal(`{ port = 1, timeout = None Double, tags = None (List Text) }`, &c))

	assert.Nil(t, c.Timeout)
	assert.Nil(t, c.Tags)
}

func TestUnmarshalScalars(t *testing.T) {
	var f float32
	require.NoError(t, Unmarshal("2", &f))
	assert.Equal(t, float32(2), f)

	var s []int
	require.NoError(t, Unmarshal("[] : List Natural", &s))
	assert.Equal(t, []int{}, s)

	var any1 any
	require.NoError(t, Unmarshal(`{ a = 1 }`, &any1))
	assert.Equal(t, Map{{"a", int64(1)}}, any1)
}

func TestUnmarshalFailures(t *testing.T) {
	cases := []struct {
		src      string
		target   any
		code     ErrorCode
		path     string
		expected string
		found    string
	}{
		{`{ host = "h" }`, &config{}, CodeMissingField, ".port", "", ""},
		{`{ port = -1 }`, &config{}, CodeTypeMismatch, ".port", "uint16", "int64"},
		{`{ port = 70000 }`, &config{}, CodeTypeMismatch, ".port", "uint16", "int64"},
		{`{ port = 1, tags = [1] }`, &config{}, CodeTypeMismatch, ".tags[0]", "string", "int64"},
		{`{ port = 1, pair = [1] }`, &config{}, CodeTypeMismatch, ".pair", "[2]int", "list"},
		{`True`, new(string), CodeTypeMismatch, "", "string", "bool"},
		{`None Bool`, new(bool), CodeTypeMismatch, "", "bool", "None"},
		{`[1]`, new(map[string]int), CodeTypeMismatch, "", "map[string]int", "list"},
		{`{ c = 1 }`, &struct {
			C chan int `dhall:"c"`
		}{}, CodeUnsupported, ".c", "", ""},
	}

	for _, c := range cases {
		err := Unmarshal(c.src, c.target)
		require.Error(t, err, c.src)
		assert.ErrorIs(t, err, ErrReduce, c.src)
		assert.ErrorIs(t, err, &Error{Kind: ReduceError, Code: c.code}, c.src)

		var e *Error
		require.ErrorAs(t, err, &e, c.src)
		assert.Equal(t, c.path, e.Path, c.src)
		assert.Equal(t, c.expected, e.Expected, c.src)
		assert.Equal(t, c.found, e.Found, c.src)
	}

	var c config
	err := Unmarshal("{ port = 1 }", c)
	assert.ErrorIs(t, err, &Error{Kind: ReduceError, Code: CodeBadTarget})
	assert.Equal(t, "reduce error: unmarshal target must be a non-nil pointer: got dhall.config", err.Error())

	err = Unmarshal("{ port = 1 }", nil)
	assert.ErrorIs(t, err, &Error{Kind: ReduceError, Code: CodeBadTarget})

	err = Unmarshal("{ port = 1, tags = [1] }", &c)
	assert.Equal(t, "reduce error at .tags[0]: type mismatch: expected string, found int64", err.Error())

	err = Unmarshal("{ port = ", &c)
	assert.ErrorIs(t, err, ErrParse)
}
