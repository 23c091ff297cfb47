package dhall

import "fmt"

type TokenType uint64

const (
	TokenError TokenType = iota
	TokenEOF

	TokenNatural // 42, 0x2A
	TokenInteger // +42, -42
	TokenDouble  // 4.2, -4.2e10
	TokenText    // "text"

	TokenIdentifier // name, `quoted name`
	TokenKeyword    // reserved words the grammar does not support

	TokenTrue
	TokenFalse
	TokenNone
	TokenSome
	TokenNaN
	TokenInfinity

	TokenBool
	TokenNaturalType
	TokenIntegerType
	TokenDoubleType
	TokenTextType
	TokenList
	TokenOptional

	TokenMinus
	TokenEquals
	TokenColon
	TokenComma
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
	TokenOpenParentheses
	TokenCloseParentheses
)

var tokenNames = map[TokenType]string{
	TokenError:            "error",
	TokenEOF:              "end of input",
	TokenNatural:          "natural literal",
	TokenInteger:          "integer literal",
	TokenDouble:           "double literal",
	TokenText:             "text literal",
	TokenIdentifier:       "identifier",
	TokenKeyword:          "keyword",
	TokenTrue:             "True",
	TokenFalse:            "False",
	TokenNone:             "None",
	TokenSome:             "Some",
	TokenNaN:              "NaN",
	TokenInfinity:         "Infinity",
	TokenBool:             "Bool",
	TokenNaturalType:      "Natural",
	TokenIntegerType:      "Integer",
	TokenDoubleType:       "Double",
	TokenTextType:         "Text",
	TokenList:             "List",
	TokenOptional:         "Optional",
	TokenMinus:            "'-'",
	TokenEquals:           "'='",
	TokenColon:            "':'",
	TokenComma:            "','",
	TokenOpenCurly:        "'{'",
	TokenCloseCurly:       "'}'",
	TokenOpenBracket:      "'['",
	TokenCloseBracket:     "']'",
	TokenOpenParentheses:  "'('",
	TokenCloseParentheses: "')'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

var keywordTable = map[string]TokenType{
	"True":     TokenTrue,
	"False":    TokenFalse,
	"None":     TokenNone,
	"Some":     TokenSome,
	"NaN":      TokenNaN,
	"Infinity": TokenInfinity,
	"Bool":     TokenBool,
	"Natural":  TokenNaturalType,
	"Integer":  TokenIntegerType,
	"Double":   TokenDoubleType,
	"Text":     TokenTextType,
	"List":     TokenList,
	"Optional": TokenOptional,

	"if":              TokenKeyword,
	"then":            TokenKeyword,
	"else":            TokenKeyword,
	"let":             TokenKeyword,
	"in":              TokenKeyword,
	"as":              TokenKeyword,
	"using":           TokenKeyword,
	"merge":           TokenKeyword,
	"missing":         TokenKeyword,
	"assert":          TokenKeyword,
	"forall":          TokenKeyword,
	"toMap":           TokenKeyword,
	"with":            TokenKeyword,
	"showConstructor": TokenKeyword,
	"Type":            TokenKeyword,
	"Kind":            TokenKeyword,
	"Sort":            TokenKeyword,
}

var operatorTable = map[rune]TokenType{
	'-': TokenMinus,
	'=': TokenEquals,
	':': TokenColon,
	',': TokenComma,
	'{': TokenOpenCurly,
	'}': TokenCloseCurly,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
}

// Location is a position in the source text. Line and Col are 1-based,
// Offset is the 0-based byte offset.
type Location struct {
	Line   int
	Col    int
	Offset int
}

func (l *Location) String() string {
	if l == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

func (t Token) describe() string {
	switch t.Typ {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return t.Value
	case TokenText:
		return fmt.Sprintf("text %q", t.Value)
	default:
		return fmt.Sprintf("%q", t.Value)
	}
}
