package dhall

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type AST struct {
	Root   Expr
	Errors []*Error
}

// Parser is a recursive-descent parser for the literal subset of Dhall.
// Parsing stops at the first error; the offending node is a *BadExpr and the
// error is reported in AST.Errors.
type Parser struct {
	tokenizer Tokenizer
	buf       *Token
	errors    []*Error
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
	}
}

// Parse lexes and parses src into a single expression.
func Parse(src string) (Expr, error) {
	ast := NewParser(NewLexerFromString(src)).Run()
	if len(ast.Errors) != 0 {
		return nil, ast.Errors[0]
	}

	return ast.Root, nil
}

// ParseTypeExpr parses src as a type, such as `List Natural`.
func ParseTypeExpr(src string) (TypeExpr, error) {
	p := NewParser(NewLexerFromString(src))
	t := p.typeExpr()
	p.finish()

	if len(p.errors) != 0 {
		return nil, p.errors[0]
	}

	return t, nil
}

func (p *Parser) Run() *AST {
	root := p.expr()
	p.finish()

	return &AST{
		Root:   root,
		Errors: p.errors,
	}
}

func (p *Parser) finish() {
	if len(p.errors) != 0 {
		return
	}

	if tok := p.peek(); tok.Typ != TokenEOF {
		p.errorAt(tok, CodeTrailingTokens, "end of input")
	}
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.next()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if p.buf != nil {
		if !p.buf.isValid() {
			// If an invalid token is buffered, don't try to get more tokens
			return *p.buf
		}

		temp := p.buf
		p.buf = nil

		return *temp
	}

	tok := p.tokenizer.Get()
	if !tok.isValid() {
		// Error and EOF stay buffered since no more valid tokens are expected
		p.buf = &tok
	}

	return tok
}

func (p *Parser) expect(typ TokenType) *Token {
	tok := p.next()
	if tok.Typ != typ {
		p.errorAt(tok, CodeUnexpectedToken, typ.String())
		return nil
	}

	return &tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType) bool {
	return p.expect(typ) != nil
}

func (p *Parser) failed() bool {
	return len(p.errors) != 0
}

// errorAt records a parse error for tok and returns the node standing in for
// the expression that could not be parsed. A lexer failure takes precedence
// over the parse error it causes.
func (p *Parser) errorAt(tok Token, code ErrorCode, expected string) *BadExpr {
	if p.failed() {
		return &BadExpr{Location: tok.Loc, Err: p.errors[0]}
	}

	var err *Error
	if tok.Typ == TokenError {
		if lexErr, ok := p.tokenizer.Err().(*Error); ok && lexErr != nil {
			err = lexErr
		}
	}

	if err == nil {
		err = &Error{
			Kind:     ParseError,
			Code:     code,
			Loc:      tok.Loc,
			Expected: expected,
			Found:    tok.describe(),
		}
	}

	p.errors = append(p.errors, err)

	return &BadExpr{Location: tok.Loc, Err: err}
}

func (p *Parser) errorf(loc *Location, code ErrorCode, format string, args ...interface{}) *BadExpr {
	if p.failed() {
		return &BadExpr{Location: loc, Err: p.errors[0]}
	}

	err := &Error{Kind: ParseError, Code: code, Loc: loc, Message: fmt.Sprintf(format, args...)}
	p.errors = append(p.errors, err)

	return &BadExpr{Location: loc, Err: err}
}

func (p *Parser) expr() Expr {
	exp := p.primary()
	if p.failed() || !p.check(TokenColon) {
		return exp
	}

	colon := p.next()
	annotation := p.typeExpr()
	if p.failed() {
		return annotation
	}

	if list, ok := exp.(*ListLiteral); ok && list.Annotation == nil {
		list.Annotation = annotation
		return list
	}

	return &AnnotatedExpr{
		Location:   colon.Loc,
		Expr:       exp,
		Annotation: annotation,
	}
}

func (p *Parser) primary() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenOpenCurly:
		return p.record()
	case TokenOpenBracket:
		return p.list()
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	case TokenMinus:
		p.next()
		operand := p.primary()
		if p.failed() {
			return operand
		}

		return &UnaryExpr{
			Location:  tok.Loc,
			Operation: UnaryNegative,
			Operand:   operand,
		}
	case TokenNone:
		p.next()
		annotation := p.typeArg()
		if p.failed() {
			return annotation
		}

		return &NoneExpr{Location: tok.Loc, Annotation: annotation}
	case TokenSome:
		p.next()
		value := p.primary()
		if p.failed() {
			return value
		}

		return &SomeExpr{Location: tok.Loc, Value: value}
	case TokenIdentifier:
		p.next()
		return &Identifier{Location: tok.Loc, Name: tok.Value}
	case TokenKeyword, TokenBool, TokenNaturalType, TokenIntegerType, TokenDoubleType,
		TokenTextType, TokenList, TokenOptional:
		p.next()
		return p.errorf(tok.Loc, CodeUnsupported, "%q is not a literal", tok.Value)
	}

	return p.literal()
}

func (p *Parser) parenthesisedExpression() Expr {
	p.next() // (

	exp := p.expr()
	if p.failed() {
		return exp
	}

	if !p.consume(TokenCloseParentheses) {
		return &BadExpr{Location: exp.GetLocation(), Err: p.errors[0]}
	}

	return exp
}

func (p *Parser) record() Expr {
	open := p.next() // {

	switch tok := p.peek(); tok.Typ {
	case TokenEquals: // {=}
		p.next()
		if !p.consume(TokenCloseCurly) {
			return &BadExpr{Location: open.Loc, Err: p.errors[0]}
		}

		return &RecordLiteral{Location: open.Loc}
	case TokenCloseCurly:
		p.next()
		return &RecordLiteral{Location: open.Loc}
	}

	rec := &RecordLiteral{Location: open.Loc}
	seen := make(map[string]bool)

	for {
		label := p.next()
		if label.Typ != TokenIdentifier {
			return p.errorAt(label, CodeUnexpectedToken, "record field name")
		}

		if p.check(TokenColon) {
			return p.errorf(label.Loc, CodeUnsupported, "record types are not values")
		}

		if !p.consume(TokenEquals) {
			return &BadExpr{Location: label.Loc, Err: p.errors[0]}
		}

		if seen[label.Value] {
			return p.errorf(label.Loc, CodeDuplicateField, "%q", label.Value)
		}
		seen[label.Value] = true

		value := p.expr()
		if p.failed() {
			return value
		}

		rec.Fields = append(rec.Fields, &RecordField{
			Location: label.Loc,
			Name:     label.Value,
			Value:    value,
		})

		switch closer := p.next(); closer.Typ {
		case TokenComma:
			continue
		case TokenCloseCurly:
			return rec
		default:
			return p.errorAt(closer, CodeUnexpectedToken, "',' or '}'")
		}
	}
}

func (p *Parser) list() Expr {
	open := p.next() // [

	list := &ListLiteral{Location: open.Loc}
	if p.check(TokenCloseBracket) {
		p.next()
		return list
	}

	for {
		elem := p.expr()
		if p.failed() {
			return elem
		}

		list.Elems = append(list.Elems, elem)

		switch closer := p.next(); closer.Typ {
		case TokenComma:
			continue
		case TokenCloseBracket:
			return list
		default:
			return p.errorAt(closer, CodeUnexpectedToken, "',' or ']'")
		}
	}
}

func (p *Parser) literal() Expr {
	switch tok := p.next(); tok.Typ {
	case TokenTrue:
		return &BoolLiteral{Location: tok.Loc, Value: true}
	case TokenFalse:
		return &BoolLiteral{Location: tok.Loc, Value: false}
	case TokenNatural:
		n, ok := parseIntLexeme(tok.Value)
		if !ok {
			return p.errorf(tok.Loc, CodeOutOfRange, "%s does not fit in 64 bits", tok.Value)
		}

		return &NaturalLiteral{Location: tok.Loc, Value: n}
	case TokenInteger:
		n, ok := parseIntLexeme(tok.Value)
		if !ok {
			return p.errorf(tok.Loc, CodeOutOfRange, "%s does not fit in 64 bits", tok.Value)
		}

		return &IntegerLiteral{Location: tok.Loc, Value: n}
	case TokenDouble:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return p.errorf(tok.Loc, CodeOutOfRange, "%s is not a finite double", tok.Value)
		}

		return &DoubleLiteral{Location: tok.Loc, Value: f}
	case TokenNaN:
		return &DoubleLiteral{Location: tok.Loc, Value: math.NaN()}
	case TokenInfinity:
		return &DoubleLiteral{Location: tok.Loc, Value: math.Inf(1)}
	case TokenText:
		return &TextLiteral{Location: tok.Loc, Value: tok.Value}
	default:
		return p.errorAt(tok, CodeUnexpectedToken, "expression")
	}
}

// typeExpr parses a type including the `List T` and `Optional T`
// applications.
func (p *Parser) typeExpr() TypeExpr {
	switch tok := p.peek(); tok.Typ {
	case TokenList:
		p.next()
		elem := p.typeArg()
		if p.failed() {
			return elem
		}

		return &ListTypeExpr{Location: tok.Loc, Elem: elem}
	case TokenOptional:
		p.next()
		elem := p.typeArg()
		if p.failed() {
			return elem
		}

		return &OptionalTypeExpr{Location: tok.Loc, Elem: elem}
	}

	return p.typeArg()
}

// typeArg parses a type that can stand as an argument without parentheses.
func (p *Parser) typeArg() TypeExpr {
	switch tok := p.next(); tok.Typ {
	case TokenBool, TokenNaturalType, TokenIntegerType, TokenDoubleType, TokenTextType:
		return &BasicTypeExpr{Location: tok.Loc, Name: tok.Value}
	case TokenOpenParentheses:
		t := p.typeExpr()
		if p.failed() {
			return t
		}

		if !p.consume(TokenCloseParentheses) {
			return &BadExpr{Location: tok.Loc, Err: p.errors[0]}
		}

		return t
	case TokenOpenCurly:
		return p.recordType(tok)
	default:
		return p.errorAt(tok, CodeUnexpectedToken, "type")
	}
}

func (p *Parser) recordType(open Token) TypeExpr {
	rec := &RecordTypeExpr{Location: open.Loc}
	if p.check(TokenCloseCurly) {
		p.next()
		return rec
	}

	seen := make(map[string]bool)
	for {
		label := p.next()
		if label.Typ != TokenIdentifier {
			return p.errorAt(label, CodeUnexpectedToken, "record field name")
		}

		if seen[label.Value] {
			return p.errorf(label.Loc, CodeDuplicateField, "%q", label.Value)
		}
		seen[label.Value] = true

		if !p.consume(TokenColon) {
			return &BadExpr{Location: label.Loc, Err: p.errors[0]}
		}

		t := p.typeExpr()
		if p.failed() {
			return t
		}

		rec.Fields = append(rec.Fields, &RecordTypeField{Name: label.Value, Type: t})

		switch closer := p.next(); closer.Typ {
		case TokenComma:
			continue
		case TokenCloseCurly:
			return rec
		default:
			return p.errorAt(closer, CodeUnexpectedToken, "',' or '}'")
		}
	}
}

// parseIntLexeme converts a natural or integer lexeme, such as "42", "-7" or
// "+0x1F", to an int64.
func parseIntLexeme(lexeme string) (int64, bool) {
	s := lexeme
	negative := false

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") {
		base = 16
		s = s[2:]
	}

	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}

	if negative {
		if u > 1<<63 {
			return 0, false
		}

		return int64(-u), true
	}

	if u > math.MaxInt64 {
		return 0, false
	}

	return int64(u), true
}
