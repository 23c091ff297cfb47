package dhall

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
	err error
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Get() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func (b *BufferedTokenizerMocker) Err() error {
	return b.err
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		expect Expr
	}{
		{
			[]Token{
				{TokenOpenCurly, "{", nil},
				{TokenIdentifier, "a", nil},
				{TokenEquals, "=", nil},
				{TokenNatural, "1", nil},
				{TokenComma, ",", nil},
				{TokenIdentifier, "b", nil},
				{TokenEquals, "=", nil},
				{TokenTrue, "True", nil},
				{TokenCloseCurly, "}", nil},
			},
			&RecordLiteral{
				Fields: []*RecordField{
					{Name: "a", Value: &NaturalLiteral{Value: 1}},
					{Name: "b", Value: &BoolLiteral{Value: true}},
				},
			},
		},
		{
			[]Token{
				{TokenOpenCurly, "{", nil},
				{TokenEquals, "=", nil},
				{TokenCloseCurly, "}", nil},
			},
			&RecordLiteral{},
		},
		{
			[]Token{
				{TokenOpenCurly, "{", nil},
				{TokenCloseCurly, "}", nil},
			},
			&RecordLiteral{},
		},
		{
			[]Token{
				{TokenOpenBracket, "[", nil},
				{TokenCloseBracket, "]", nil},
				{TokenColon, ":", nil},
				{TokenList, "List", nil},
				{TokenNaturalType, "Natural", nil},
			},
			&ListLiteral{
				Annotation: &ListTypeExpr{Elem: &BasicTypeExpr{Name: "Natural"}},
			},
		},
		{
			[]Token{
				{TokenOpenBracket, "[", nil},
				{TokenInteger, "+1", nil},
				{TokenComma, ",", nil},
				{TokenInteger, "-9223372036854775808", nil},
				{TokenComma, ",", nil},
				{TokenNatural, "0x1F", nil},
				{TokenCloseBracket, "]", nil},
			},
			&ListLiteral{
				Elems: []Expr{
					&IntegerLiteral{Value: 1},
					&IntegerLiteral{Value: math.MinInt64},
					&NaturalLiteral{Value: 31},
				},
			},
		},
		{
			[]Token{
				{TokenNone, "None", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenOptional, "Optional", nil},
				{TokenTextType, "Text", nil},
				{TokenCloseParentheses, ")", nil},
			},
			&NoneExpr{
				Annotation: &OptionalTypeExpr{Elem: &BasicTypeExpr{Name: "Text"}},
			},
		},
		{
			[]Token{
				{TokenNone, "None", nil},
				{TokenOpenCurly, "{", nil},
				{TokenIdentifier, "x", nil},
				{TokenColon, ":", nil},
				{TokenList, "List", nil},
				{TokenDoubleType, "Double", nil},
				{TokenCloseCurly, "}", nil},
			},
			&NoneExpr{
				Annotation: &RecordTypeExpr{
					Fields: []*RecordTypeField{
						{Name: "x", Type: &ListTypeExpr{Elem: &BasicTypeExpr{Name: "Double"}}},
					},
				},
			},
		},
		{
			[]Token{
				{TokenSome, "Some", nil},
				{TokenText, "hi", nil},
			},
			&SomeExpr{Value: &TextLiteral{Value: "hi"}},
		},
		{
			[]Token{
				{TokenMinus, "-", nil},
				{TokenInfinity, "Infinity", nil},
			},
			&UnaryExpr{
				Operation: UnaryNegative,
				Operand:   &DoubleLiteral{Value: math.Inf(1)},
			},
		},
		{
			[]Token{
				{TokenOpenParentheses, "(", nil},
				{TokenDouble, "2.5", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenColon, ":", nil},
				{TokenDoubleType, "Double", nil},
			},
			&AnnotatedExpr{
				Expr:       &DoubleLiteral{Value: 2.5},
				Annotation: &BasicTypeExpr{Name: "Double"},
			},
		},
		{
			[]Token{
				{TokenIdentifier, "x", nil},
			},
			&Identifier{Name: "x"},
		},
	}

	for _, c := range cases {
		tokenizer := NewBufferedTokenizerMocker(c.data)
		p := NewParser(tokenizer)

		got := p.Run()
		expect := &AST{
			Root: c.expect,
		}

		assert.Equal(t, expect, got)
	}
}

func TestParserFailures(t *testing.T) {
	cases := []struct {
		name string
		data []Token
		code ErrorCode
	}{
		{
			"duplicate field",
			[]Token{
				{TokenOpenCurly, "{", nil},
				{TokenIdentifier, "a", nil},
				{TokenEquals, "=", nil},
				{TokenNatural, "1", nil},
				{TokenComma, ",", nil},
				{TokenIdentifier, "a", nil},
				{TokenEquals, "=", nil},
				{TokenNatural, "2", nil},
				{TokenCloseCurly, "}", nil},
			},
			CodeDuplicateField,
		},
		{
			"missing comma",
			[]Token{
				{TokenOpenBracket, "[", nil},
				{TokenNatural, "1", nil},
				{TokenNatural, "2", nil},
				{TokenCloseBracket, "]", nil},
			},
			CodeUnexpectedToken,
		},
		{
			"trailing tokens",
			[]Token{
				{TokenNatural, "1", nil},
				{TokenNatural, "2", nil},
			},
			CodeTrailingTokens,
		},
		{
			"natural too large",
			[]Token{
				{TokenNatural, "18446744073709551616", nil},
			},
			CodeOutOfRange,
		},
		{
			"integer too small",
			[]Token{
				{TokenInteger, "-9223372036854775809", nil},
			},
			CodeOutOfRange,
		},
		{
			"record type as value",
			[]Token{
				{TokenOpenCurly, "{", nil},
				{TokenIdentifier, "a", nil},
				{TokenColon, ":", nil},
				{TokenNaturalType, "Natural", nil},
				{TokenCloseCurly, "}", nil},
			},
			CodeUnsupported,
		},
		{
			"keyword",
			[]Token{
				{TokenKeyword, "let", nil},
			},
			CodeUnsupported,
		},
		{
			"type as value",
			[]Token{
				{TokenNaturalType, "Natural", nil},
			},
			CodeUnsupported,
		},
		{
			"None without type",
			[]Token{
				{TokenNone, "None", nil},
				{TokenNatural, "1", nil},
			},
			CodeUnexpectedToken,
		},
		{
			"empty input",
			nil,
			CodeUnexpectedToken,
		},
	}

	for _, c := range cases {
		p := NewParser(NewBufferedTokenizerMocker(c.data))

		got := p.Run()
		require.Len(t, got.Errors, 1, c.name)
		if c.code != CodeTrailingTokens {
			assert.IsType(t, &BadExpr{}, got.Root, c.name)
		}
		assert.Equal(t, ParseError, got.Errors[0].Kind, c.name)
		assert.Equal(t, c.code, got.Errors[0].Code, c.name)
	}
}

func TestParserPrefersLexerError(t *testing.T) {
	lexErr := &Error{Kind: LexError, Code: CodeBadEscape}
	tokenizer := NewBufferedTokenizerMocker([]Token{
		{TokenOpenBracket, "[", nil},
		{TokenError, `\q`, nil},
	})
	tokenizer.err = lexErr

	got := NewParser(tokenizer).Run()
	require.Len(t, got.Errors, 1)
	assert.Same(t, lexErr, got.Errors[0])
}

func TestParseIncomplete(t *testing.T) {
	for _, src := range []string{"[1,", "{ a = ", `"open`, "{- comment", "Some"} {
		_, err := Parse(src)
		require.Error(t, err, src)
		assert.True(t, IsIncomplete(err), src)
	}

	for _, src := range []string{"[1 2]", "@", "1 2"} {
		_, err := Parse(src)
		require.Error(t, err, src)
		assert.False(t, IsIncomplete(err), src)
	}
}

func TestParseTypeExpr(t *testing.T) {
	got, err := ParseTypeExpr("List (Optional Bool)")
	require.NoError(t, err)

	list, ok := got.(*ListTypeExpr)
	require.True(t, ok)

	opt, ok := list.Elem.(*OptionalTypeExpr)
	require.True(t, ok)
	assert.Equal(t, "Bool", opt.Elem.(*BasicTypeExpr).Name)

	_, err = ParseTypeExpr("List Natural Natural")
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseIntLexeme(t *testing.T) {
	cases := []struct {
		lexeme string
		value  int64
		ok     bool
	}{
		{"0", 0, true},
		{"+0", 0, true},
		{"-0", 0, true},
		{"42", 42, true},
		{"-7", -7, true},
		{"+0x1F", 31, true},
		{"9223372036854775807", math.MaxInt64, true},
		{"9223372036854775808", 0, false},
		{"-9223372036854775808", math.MinInt64, true},
	}

	for _, c := range cases {
		got, ok := parseIntLexeme(c.lexeme)
		assert.Equal(t, c.ok, ok, c.lexeme)
		assert.Equal(t, c.value, got, c.lexeme)
	}
}
