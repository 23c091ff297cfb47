package dhall

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = -1

	invalidRune rune = -2
)

// Tokenizer is the token source a Parser pulls from.
type Tokenizer interface {
	Get() Token
	Err() error
}

// Lexer turns Dhall source into tokens. It is pull driven: every call to Get
// runs the state machine until the next token has been produced.
type Lexer struct {
	reader *bufio.Reader
	state  stateFunc

	pending []Token
	last    Token
	err     *Error
	readErr error

	pos   Location
	start Location
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		state:  defaultState,
		pos:    Location{Line: 1, Col: 1},
	}
}

func NewLexerFromString(src string) *Lexer {
	return NewLexer(strings.NewReader(src))
}

// Tokenize lexes the whole of src. Whitespace and comments are dropped.
func Tokenize(src string) ([]Token, error) {
	return NewLexerFromString(src).Run()
}

// Get returns the next token. Once TokenEOF or TokenError has been returned
// every further call returns the same token.
func (l *Lexer) Get() Token {
	for len(l.pending) == 0 && l.state != nil {
		l.state = l.state(l)
	}

	if len(l.pending) == 0 {
		return l.last
	}

	tok := l.pending[0]
	l.pending = l.pending[1:]
	l.last = tok

	return tok
}

// Err returns the error that stopped the lexer, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}

	return l.err
}

// Run drains the lexer.
func (l *Lexer) Run() ([]Token, error) {
	var tokens []Token
	for {
		switch t := l.Get(); t.Typ {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, l.Err()
		default:
			tokens = append(tokens, t)
		}
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.start = l.pos

		switch r := l.peek(); {
		case r == EOF && l.readErr != nil:
			l.errorf(CodeRead, "")
			l.err.Err = l.readErr
			return nil
		case r == EOF:
			return l.emitValue(TokenEOF, "")
		case isSpace(r):
			l.next()
			continue
		case isDigit(r):
			return numberState
		case r == '+':
			return signState
		case r == '-':
			return minusState
		case r == '"':
			return textState
		case r == '`':
			return quotedLabelState
		case r == '{':
			return curlyState
		case isLabelStart(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	return l.number("")
}

func signState(l *Lexer) stateFunc {
	l.next() // +
	if !isDigit(l.peek()) {
		return l.errorf(CodeUnexpectedChar, "invalid symbol '+'")
	}

	return l.number("+")
}

func minusState(l *Lexer) stateFunc {
	l.next() // -

	switch r := l.peek(); {
	case r == '-':
		return lineCommentState
	case isDigit(r):
		return l.number("-")
	default:
		return l.emitValue(TokenMinus, "-")
	}
}

func curlyState(l *Lexer) stateFunc {
	l.next() // {
	if l.peek() != '-' {
		return l.emitValue(TokenOpenCurly, "{")
	}

	l.next() // -
	return blockCommentState
}

func (l *Lexer) number(sign string) stateFunc {
	var num strings.Builder
	num.WriteString(sign)

	if l.peek() == '0' {
		num.WriteRune(l.next())
		if l.peek() == 'x' {
			num.WriteRune(l.next())
			digits := 0
			for r := l.peek(); isHexDigit(r); r = l.peek() {
				num.WriteRune(l.next())
				digits++
			}

			if digits == 0 {
				return l.errorf(CodeBadNumber, "missing hexadecimal digits in %q", num.String())
			}

			return l.emitInteger(sign, num.String())
		}
	}

	l.digits(&num)
	isDouble := false

	if l.peek() == '.' {
		isDouble = true
		num.WriteRune(l.next())
		if l.digits(&num) == 0 {
			return l.errorf(CodeBadNumber, "missing digits after decimal point in %q", num.String())
		}
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		isDouble = true
		num.WriteRune(l.next())
		if r := l.peek(); r == '+' || r == '-' {
			num.WriteRune(l.next())
		}

		if l.digits(&num) == 0 {
			return l.errorf(CodeBadNumber, "missing exponent digits in %q", num.String())
		}
	}

	if isDouble {
		return l.emitValue(TokenDouble, num.String())
	}

	return l.emitInteger(sign, num.String())
}

func (l *Lexer) emitInteger(sign, lexeme string) stateFunc {
	if sign == "" {
		return l.emitValue(TokenNatural, lexeme)
	}

	return l.emitValue(TokenInteger, lexeme)
}

func (l *Lexer) digits(num *strings.Builder) int {
	n := 0
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
		n++
	}

	return n
}

func textState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for {
		r := l.next()
		switch r {
		case EOF:
			return l.errorf(CodeUnclosedText, "%q", str.String())
		case invalidRune:
			return l.errorf(CodeUnexpectedChar, "invalid UTF-8 in text literal")
		case '"':
			return l.emitValue(TokenText, str.String())
		case '$':
			if l.peek() == '{' {
				return l.errorf(CodeInterpolation, "found \"${\"")
			}
			str.WriteRune(r)
		case '\\':
			if !l.escape(&str) {
				return nil
			}
		default:
			str.WriteRune(r)
		}
	}
}

// escape decodes one escape sequence, the backslash already consumed.
func (l *Lexer) escape(str *strings.Builder) bool {
	switch r := l.next(); r {
	case '"', '\\', '/', '$':
		str.WriteRune(r)
	case 'b':
		str.WriteByte('\b')
	case 'f':
		str.WriteByte('\f')
	case 'n':
		str.WriteByte('\n')
	case 'r':
		str.WriteByte('\r')
	case 't':
		str.WriteByte('\t')
	case 'u':
		code, ok := l.unicodeEscape()
		if !ok {
			return false
		}
		str.WriteRune(code)
	case EOF:
		l.errorf(CodeUnclosedText, "input ends inside an escape sequence")
		return false
	default:
		l.errorf(CodeBadEscape, "\\%c", r)
		return false
	}

	return true
}

func (l *Lexer) unicodeEscape() (rune, bool) {
	var hex strings.Builder

	if l.peek() == '{' {
		l.next()
		for r := l.next(); r != '}'; r = l.next() {
			if !isHexDigit(r) || hex.Len() == 6 {
				l.errorf(CodeBadEscape, "\\u{%s", hex.String())
				return 0, false
			}
			hex.WriteRune(r)
		}
	} else {
		for i := 0; i < 4; i++ {
			r := l.next()
			if !isHexDigit(r) {
				l.errorf(CodeBadEscape, "\\u%s", hex.String())
				return 0, false
			}
			hex.WriteRune(r)
		}
	}

	code, err := strconv.ParseUint(hex.String(), 16, 32)
	if err != nil || hex.Len() == 0 {
		l.errorf(CodeBadEscape, "\\u%s", hex.String())
		return 0, false
	}

	if !utf8.ValidRune(rune(code)) {
		l.errorf(CodeBadEscape, "\\u%s is not a Unicode scalar value", hex.String())
		return 0, false
	}

	return rune(code), true
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isLabelChar(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func quotedLabelState(l *Lexer) stateFunc {
	l.next() // `

	var id strings.Builder
	for r := l.next(); r != '`'; r = l.next() {
		if r == EOF {
			return l.errorf(CodeUnexpectedChar, "unterminated quoted label `%s", id.String())
		}

		if !isQuotedLabelChar(r) {
			return l.errorf(CodeUnexpectedChar, "invalid character %q in quoted label", r)
		}

		id.WriteRune(r)
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	if tok, ok := operatorTable[r]; ok {
		return l.emitValue(tok, string(r))
	}

	return l.errorf(CodeUnexpectedChar, "invalid symbol %q", r)
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func blockCommentState(l *Lexer) stateFunc {
	depth := 1
	for depth > 0 {
		switch r := l.next(); r {
		case EOF:
			return l.errorf(CodeUnclosedComment, "")
		case '{':
			if l.peek() == '-' {
				l.next()
				depth++
			}
		case '-':
			if l.peek() == '}' {
				l.next()
				depth--
			}
		}
	}

	return defaultState
}

func (l *Lexer) errorf(code ErrorCode, format string, args ...interface{}) stateFunc {
	start := l.start
	l.err = lexErrorf(&start, code, format, args...)
	l.pending = append(l.pending, Token{
		Typ:   TokenError,
		Value: l.err.Error(),
		Loc:   &start,
	})
	l.state = nil

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	start := l.start
	l.pending = append(l.pending, Token{
		Typ:   t,
		Value: val,
		Loc:   &start,
	})

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		l.setReadErr(err)
		return EOF
	}
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) setReadErr(err error) {
	if err != io.EOF && l.readErr == nil {
		l.readErr = err
	}
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		l.setReadErr(err)
		return EOF
	}

	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	} else {
		l.pos.Col++
	}

	if r == utf8.RuneError && size == 1 {
		return invalidRune
	}

	return r
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func isLabelStart(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isLabelChar(r rune) bool {
	return isLabelStart(r) || isDigit(r) || r == '-' || r == '/'
}

func isQuotedLabelChar(r rune) bool {
	return r >= 0x20 && r <= 0x7E && r != '`'
}
