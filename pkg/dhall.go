// Package dhall converts between the literal subset of Dhall and Go values.
//
// Decoding runs the source through the Lexer, the Parser and the Reducer and
// hands the resulting Value to ToNative. Encoding classifies a Go value,
// infers the type of every list and renders Dhall text. Both directions are
// synchronous and keep no state between calls, so they are safe to use from
// several goroutines at once.
package dhall

import "io"

// DecodeValue parses and reduces src.
func DecodeValue(src string) (Value, error) {
	return decodeFrom(NewLexerFromString(src))
}

// Decode parses src and returns its native Go form; see ToNative.
func Decode(src string) (any, error) {
	v, err := DecodeValue(src)
	if err != nil {
		return nil, err
	}

	return ToNative(v), nil
}

// Encode renders v as Dhall literal text.
func Encode(v any, opts ...EncodeOption) (string, error) {
	return NewEncoder(opts...).Encode(v)
}

// Load decodes everything r yields.
func Load(r io.Reader) (any, error) {
	v, err := decodeFrom(NewLexer(r))
	if err != nil {
		return nil, err
	}

	return ToNative(v), nil
}

// Dump encodes v and writes it to w. Nothing is written if encoding fails.
func Dump(w io.Writer, v any, opts ...EncodeOption) error {
	s, err := Encode(v, opts...)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, s)
	return err
}

func decodeFrom(tokenizer Tokenizer) (Value, error) {
	ast := NewParser(tokenizer).Run()
	if len(ast.Errors) != 0 {
		return nil, ast.Errors[0]
	}

	return Reduce(ast.Root)
}

