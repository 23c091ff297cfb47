// Package test generates random Dhall input and random Go values for tests
// and benchmarks.
package test

import (
	"math"
	"math/rand"
	"strings"
)

const validTokens = "{;};[;];(;);,;=;:;True;False;None;Some;Natural;List;Optional;field;`quoted label`;\"this is a string\";\"this is a longer string with escapes: \\\" \\\\ \\n \\t \\u00E9 and a dollar \\$ sign, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"\";0;42;0x2A;+7;-7;3.14;-2.5e10;NaN;-;-- line comment\n;{- block {- nested -} comment -};\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// MaxSafeInt is 2^53-1, the range the round-trip properties are checked in.
const MaxSafeInt = 1<<53 - 1

// Gen draws random Go values shaped like the values a caller would encode.
type Gen struct {
	rnd *rand.Rand
}

func NewGen(seed int64) *Gen {
	return &Gen{rnd: rand.New(rand.NewSource(seed))}
}

func (g *Gen) Bool() bool {
	return g.rnd.Intn(2) == 1
}

func (g *Gen) Natural() int64 {
	return g.rnd.Int63n(MaxSafeInt + 1)
}

// Negative returns a value in [-(2^53-1), -1].
func (g *Gen) Negative() int64 {
	return -1 - g.rnd.Int63n(MaxSafeInt)
}

func (g *Gen) Int() int64 {
	return g.rnd.Int63n(2*MaxSafeInt+1) - MaxSafeInt
}

func (g *Gen) Float() float64 {
	switch g.rnd.Intn(4) {
	case 0:
		return 0
	case 1:
		return (g.rnd.Float64()*2 - 1) * MaxSafeInt
	case 2:
		return g.rnd.NormFloat64()
	default:
		return math.Ldexp(g.rnd.Float64(), -g.rnd.Intn(60))
	}
}

var textAlphabet = []rune("abcXYZ 019_-\"\\$\n\t\r\x00\x07\x1f\x7féüß€😀{}[]`'")

func (g *Gen) Text() string {
	n := g.rnd.Intn(12)
	var str strings.Builder
	for i := 0; i < n; i++ {
		str.WriteRune(textAlphabet[g.rnd.Intn(len(textAlphabet))])
	}

	return str.String()
}

const labelAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Label returns a non-empty ASCII letter label.
func (g *Gen) Label() string {
	n := 1 + g.rnd.Intn(8)
	b := make([]byte, n)
	for i := range b {
		b[i] = labelAlphabet[g.rnd.Intn(len(labelAlphabet))]
	}

	return string(b)
}

// Naturals returns a non-empty list of naturals.
func (g *Gen) Naturals() []any {
	n := 1 + g.rnd.Intn(10)
	items := make([]any, n)
	for i := range items {
		items[i] = g.Natural()
	}

	return items
}

// Entry is one field of a generated record. It converts to dhall.Entry.
type Entry struct {
	Key   string
	Value any
}

// Record returns a nested record of booleans, text and integers with letter
// labels, nested at most depth levels. Nested records are []Entry too.
func (g *Gen) Record(depth int) []Entry {
	n := g.rnd.Intn(5)
	seen := make(map[string]bool)

	m := []Entry{}
	for len(m) < n {
		key := g.Label()
		if seen[key] {
			continue
		}
		seen[key] = true

		var v any
		switch choice := g.rnd.Intn(4); {
		case choice == 0:
			v = g.Bool()
		case choice == 1:
			v = g.Text()
		case choice == 2 || depth == 0:
			v = g.Int()
		default:
			v = g.Record(depth - 1)
		}

		m = append(m, Entry{Key: key, Value: v})
	}

	return m
}
