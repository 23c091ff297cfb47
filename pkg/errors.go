package dhall

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the conversion phase an error belongs to.
type ErrorKind string

const (
	LexError    ErrorKind = "lex error"
	ParseError  ErrorKind = "parse error"
	ReduceError ErrorKind = "reduce error"
	EncodeError ErrorKind = "encode error"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrLex    = errors.New(string(LexError))
	ErrParse  = errors.New(string(ParseError))
	ErrReduce = errors.New(string(ReduceError))
	ErrEncode = errors.New(string(EncodeError))
)

// ErrorCode narrows down the reason within a kind.
type ErrorCode string

const (
	// Lexing
	CodeUnexpectedChar  ErrorCode = "unexpected character"
	CodeUnclosedText    ErrorCode = "unterminated text literal"
	CodeUnclosedComment ErrorCode = "unterminated block comment"
	CodeBadEscape       ErrorCode = "invalid escape sequence"
	CodeInterpolation   ErrorCode = "text interpolation is not supported"
	CodeBadNumber       ErrorCode = "malformed number"
	CodeRead            ErrorCode = "read failure"

	// Parsing
	CodeUnexpectedToken ErrorCode = "unexpected token"
	CodeDuplicateField  ErrorCode = "duplicate record field"
	CodeOutOfRange      ErrorCode = "number out of range"
	CodeTrailingTokens  ErrorCode = "trailing tokens"

	// Reduction and encoding
	CodeUnsupported     ErrorCode = "unsupported construct"
	CodeMixedList       ErrorCode = "mixed list element kinds"
	CodeMixedSign       ErrorCode = "mixed natural and negative integer list elements"
	CodeEmptyList       ErrorCode = "cannot infer element type of empty list"
	CodeNonFinite       ErrorCode = "non-finite double"
	CodeKeyNotString    ErrorCode = "map key is not a string"
	CodeUnrepresentable ErrorCode = "value has no Dhall representation"
	CodeTypeMismatch    ErrorCode = "type mismatch"

	// Unmarshal
	CodeMissingField ErrorCode = "missing required record field"
	CodeBadTarget    ErrorCode = "unmarshal target must be a non-nil pointer"
)

// Error is returned by every failing conversion. A conversion fails as a
// whole; there is never a partial result next to an Error.
type Error struct {
	Kind     ErrorKind
	Code     ErrorCode
	Loc      *Location
	Path     string
	Expected string
	Found    string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var str strings.Builder
	str.WriteString(string(e.Kind))

	if e.Loc != nil {
		str.WriteString(" at ")
		str.WriteString(e.Loc.String())
	}

	if e.Path != "" {
		str.WriteString(" at ")
		str.WriteString(e.Path)
	}

	str.WriteString(": ")
	str.WriteString(string(e.Code))

	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&str, ": expected %s, found %s", e.Expected, e.Found)
	}

	if e.Message != "" {
		str.WriteString(": ")
		str.WriteString(e.Message)
	}

	if e.Err != nil {
		str.WriteString(": ")
		str.WriteString(e.Err.Error())
	}

	return str.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind or an *Error with
// the same kind and code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrLex:
		return e.Kind == LexError
	case ErrParse:
		return e.Kind == ParseError
	case ErrReduce:
		return e.Kind == ReduceError
	case ErrEncode:
		return e.Kind == EncodeError
	}

	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && t.Code == e.Code
	}

	return false
}

// IsIncomplete reports whether err was caused by input ending too early, so
// that more input could still make it valid.
func IsIncomplete(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Code {
	case CodeUnclosedText, CodeUnclosedComment:
		return true
	case CodeUnexpectedToken:
		return e.Found == "end of input"
	}

	return false
}

func lexErrorf(loc *Location, code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Kind: LexError, Code: code, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

func reduceErrorf(loc *Location, code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Kind: ReduceError, Code: code, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

func encodeErrorf(path string, code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Kind: EncodeError, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
