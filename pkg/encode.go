package dhall

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EncodeOption configures an Encoder.
type EncodeOption func(*Encoder)

// WithEmptyListType annotates empty lists as `[] : List elem`. Without it an
// empty list is an error, since nothing in it tells which type it has.
func WithEmptyListType(elem Type) EncodeOption {
	return func(e *Encoder) {
		e.emptyListType = elem
	}
}

// WithSortKeys emits the fields of Maps and structs sorted by name. Go maps
// are always emitted sorted.
func WithSortKeys(sortKeys bool) EncodeOption {
	return func(e *Encoder) {
		e.sortKeys = sortKeys
	}
}

// Encoder renders native Go values as Dhall literal text.
type Encoder struct {
	emptyListType Type
	sortKeys      bool
}

func NewEncoder(opts ...EncodeOption) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encode renders v. The whole call fails if any part of v has no Dhall
// literal form.
func (e *Encoder) Encode(v any) (string, error) {
	val, err := e.FromNative(v)
	if err != nil {
		return "", err
	}

	return EncodeValue(val)
}

// FromNative converts v into a Value, inferring the type of every list.
func (e *Encoder) FromNative(v any) (Value, error) {
	val, err := e.fromNative(reflect.ValueOf(v), "")
	if err != nil {
		return nil, err
	}

	return val, nil
}

// Infer returns the Dhall type v would be encoded with.
func (e *Encoder) Infer(v any) (Type, error) {
	val, err := e.FromNative(v)
	if err != nil {
		return nil, err
	}

	return val.Type(), nil
}

func (e *Encoder) fromNative(rv reflect.Value, path string) (Value, *Error) {
	kind, err := classify(rv, path)
	if err != nil {
		return nil, err
	}

	rv = indirect(rv)
	if rv.IsValid() && rv.Type().Implements(valueType) {
		return e.checkValue(rv.Interface().(Value), path)
	}

	switch kind {
	case KindNone:
		return None(&RecordType{}), nil
	case KindBool:
		return Bool(rv.Bool()), nil
	case KindNatural:
		if rv.Kind() >= reflect.Uint && rv.Kind() <= reflect.Uintptr {
			return Natural(rv.Uint()), nil
		}

		return Natural(rv.Int()), nil
	case KindInteger:
		return Integer(rv.Int()), nil
	case KindDouble:
		return Double(rv.Float()), nil
	case KindText:
		if !utf8.ValidString(rv.String()) {
			return nil, encodeErrorf(path, CodeUnrepresentable, "text is not valid UTF-8")
		}

		return Text(rv.String()), nil
	case KindList:
		return e.list(rv, path)
	case KindRecord:
		return e.record(rv, path)
	}

	return nil, encodeErrorf(path, CodeUnrepresentable, "%s", rv.Type())
}

// checkValue lets a Value that is passed in as is go through the same
// checks as a native one.
func (e *Encoder) checkValue(v Value, path string) (Value, *Error) {
	switch val := v.(type) {
	case Natural:
		if val < 0 {
			return nil, encodeErrorf(path, CodeOutOfRange, "negative Natural %d", int64(val))
		}
	case Double:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, encodeErrorf(path, CodeNonFinite, "%v", float64(val))
		}
	case *Optional:
		if val.elem == nil {
			return nil, encodeErrorf(path, CodeUnrepresentable, "Optional without an element type")
		}
	case *List:
		if val.elem == nil {
			if e.emptyListType == nil {
				return nil, encodeErrorf(path, CodeEmptyList, "")
			}

			return &List{elem: e.emptyListType}, nil
		}
	}

	return v, nil
}

func (e *Encoder) list(rv reflect.Value, path string) (Value, *Error) {
	n := rv.Len()
	if n == 0 {
		if e.emptyListType == nil {
			return nil, encodeErrorf(path, CodeEmptyList, "use WithEmptyListType to annotate it")
		}

		return &List{elem: e.emptyListType}, nil
	}

	items := make([]Value, n)
	hasNone := false
	for i := 0; i < n; i++ {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		elem := rv.Index(i)

		if !indirect(elem).IsValid() {
			hasNone = true
			continue
		}

		item, err := e.fromNative(elem, elemPath)
		if err != nil {
			return nil, err
		}

		if o, isOptional := item.(*Optional); isOptional && o.IsNone() {
			hasNone = true
			continue
		}

		items[i] = item
	}

	if hasNone {
		items = optionalItems(items)
	}

	list, listErr := NewList(nil, items...)
	if listErr != nil {
		err := *listErr.(*Error)
		err.Kind = EncodeError
		err.Path = path + err.Path

		return nil, &err
	}

	return list, nil
}

// optionalItems turns a list with missing items into a list of Optionals.
// The first present item decides the element type; with none present the
// element type is the empty record.
func optionalItems(items []Value) []Value {
	var elem Type = &RecordType{}
	for _, item := range items {
		if item != nil {
			elem = item.Type()
			break
		}
	}

	out := make([]Value, len(items))
	for i, item := range items {
		switch {
		case item == nil:
			out[i] = None(elem)
		default:
			out[i] = Some(item)
		}
	}

	return out
}

func (e *Encoder) record(rv reflect.Value, path string) (Value, *Error) {
	var fields []Field

	add := func(name string, field reflect.Value) *Error {
		if !canQuoteLabel(name) {
			return encodeErrorf(path, CodeUnrepresentable, "record label %q", name)
		}

		v, err := e.fromNative(field, path+"."+name)
		if err != nil {
			return err
		}

		fields = append(fields, Field{Name: name, Value: v})
		return nil
	}

	switch {
	case rv.Type() == mapType:
		m := rv.Interface().(Map)
		if e.sortKeys {
			m = m.Sorted()
		}

		for _, entry := range m {
			if err := add(entry.Key, reflect.ValueOf(&entry.Value).Elem()); err != nil {
				return nil, err
			}
		}
	case rv.Kind() == reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})

		for _, key := range keys {
			if err := add(key.String(), rv.MapIndex(key)); err != nil {
				return nil, err
			}
		}
	case rv.Kind() == reflect.Struct:
		for _, f := range structFields(rv.Type(), e.sortKeys) {
			field := rv.Field(f.index)
			if f.omitEmpty && field.IsZero() {
				continue
			}

			if err := add(f.name, field); err != nil {
				return nil, err
			}
		}
	}

	rec, err := NewRecord(fields...)
	if err != nil {
		recErr := *err.(*Error)
		recErr.Kind = EncodeError
		recErr.Path = path

		return nil, &recErr
	}

	return rec, nil
}

type structField struct {
	name      string
	index     int
	omitEmpty bool
	required  bool
}

// structFields lists the exported fields of t with their `dhall` tag
// applied: `dhall:"name"`, `dhall:"name,omitempty"`, `dhall:"-"`.
func structFields(t reflect.Type, sorted bool) []structField {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		tag := f.Tag.Get("dhall")
		if tag == "-" {
			continue
		}

		name, opts := parseTag(tag)
		if name == "" {
			name = f.Name
		}

		fields = append(fields, structField{
			name:      name,
			index:     i,
			omitEmpty: hasOption(opts, "omitempty"),
			required:  hasOption(opts, "required"),
		})
	}

	if sorted {
		sort.SliceStable(fields, func(i, j int) bool {
			return fields[i].name < fields[j].name
		})
	}

	return fields
}

func parseTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func hasOption(opts []string, option string) bool {
	for _, opt := range opts {
		if opt == option {
			return true
		}
	}

	return false
}

// EncodeValue renders v as Dhall source. It fails only for values Dhall
// cannot write down, such as non-finite doubles, negative naturals and
// empty lists without a known element type.
func EncodeValue(v Value) (string, error) {
	var str strings.Builder
	if err := writeValue(&str, v, ""); err != nil {
		return "", err
	}

	return str.String(), nil
}

func writeValue(str *strings.Builder, v Value, path string) *Error {
	switch e := v.(type) {
	case Bool:
		if e {
			str.WriteString("True")
		} else {
			str.WriteString("False")
		}
	case Natural:
		if e < 0 {
			return encodeErrorf(path, CodeOutOfRange, "negative Natural %d", int64(e))
		}
		str.WriteString(strconv.FormatInt(int64(e), 10))
	case Integer:
		if e >= 0 {
			str.WriteByte('+')
		}
		str.WriteString(strconv.FormatInt(int64(e), 10))
	case Double:
		d, ok := formatDouble(float64(e))
		if !ok {
			return encodeErrorf(path, CodeNonFinite, "%v", float64(e))
		}
		str.WriteString(d)
	case Text:
		str.WriteString(formatText(string(e)))
	case *List:
		return writeList(str, e, path)
	case *Record:
		return writeRecord(str, e, path)
	case *Optional:
		if e.elem == nil {
			return encodeErrorf(path, CodeUnrepresentable, "Optional without an element type")
		}

		if e.IsNone() {
			str.WriteString("None ")
			str.WriteString(argString(e.elem))
			return nil
		}

		str.WriteString("Some ")
		return writeArg(str, e.value, path)
	default:
		return encodeErrorf(path, CodeUnrepresentable, "%T", v)
	}

	return nil
}

// writeArg writes v in argument position, where an application or an
// annotated empty list needs parentheses.
func writeArg(str *strings.Builder, v Value, path string) *Error {
	if !needsParens(v) {
		return writeValue(str, v, path)
	}

	str.WriteByte('(')
	if err := writeValue(str, v, path); err != nil {
		return err
	}
	str.WriteByte(')')

	return nil
}

func needsParens(v Value) bool {
	switch e := v.(type) {
	case *Optional:
		return true
	case *List:
		return e.Len() == 0
	}

	return false
}

func writeList(str *strings.Builder, l *List, path string) *Error {
	if l.Len() == 0 {
		if l.elem == nil {
			return encodeErrorf(path, CodeEmptyList, "")
		}

		str.WriteString("[] : ")
		str.WriteString(l.Type().String())

		return nil
	}

	str.WriteByte('[')
	for i, item := range l.items {
		if i != 0 {
			str.WriteString(", ")
		}

		if err := writeValue(str, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	str.WriteByte(']')

	return nil
}

func writeRecord(str *strings.Builder, r *Record, path string) *Error {
	if r.Len() == 0 {
		str.WriteString("{=}")
		return nil
	}

	str.WriteString("{ ")
	for i, f := range r.fields {
		if i != 0 {
			str.WriteString(", ")
		}

		str.WriteString(formatLabel(f.Name))
		str.WriteString(" = ")

		if err := writeValue(str, f.Value, path+"."+f.Name); err != nil {
			return err
		}
	}
	str.WriteString(" }")

	return nil
}

// formatDouble always includes a decimal point or an exponent with a
// mantissa that has one, as Dhall needs to tell a Double from a Natural.
func formatDouble(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}

	format := byte('g')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		format = 'f'
	}

	s := strconv.FormatFloat(f, format, -1, 64)
	mantissa, exponent, hasExponent := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}

	if hasExponent {
		return mantissa + "e" + exponent, true
	}

	return mantissa, true
}

// formatText quotes s as a Dhall double-quoted text literal.
func formatText(s string) string {
	var str strings.Builder
	str.Grow(len(s) + 2)
	str.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			str.WriteString(`\"`)
		case '\\':
			str.WriteString(`\\`)
		case '$':
			str.WriteString(`\$`)
		case '\b':
			str.WriteString(`\b`)
		case '\f':
			str.WriteString(`\f`)
		case '\n':
			str.WriteString(`\n`)
		case '\r':
			str.WriteString(`\r`)
		case '\t':
			str.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(&str, `\u%04X`, r)
				continue
			}
			str.WriteRune(r)
		}
	}

	str.WriteByte('"')

	return str.String()
}

// formatLabel writes a record label, quoting it with backticks when it is
// not a plain label or when it collides with a keyword or builtin.
func formatLabel(name string) string {
	if isPlainLabel(name) {
		return name
	}

	return "`" + name + "`"
}

func isPlainLabel(name string) bool {
	if name == "" {
		return false
	}

	if _, reserved := keywordTable[name]; reserved {
		return false
	}

	for i, r := range name {
		if i == 0 && !isLabelStart(r) {
			return false
		}

		if !isLabelChar(r) {
			return false
		}
	}

	return true
}

// canQuoteLabel reports whether name can be written at all, bare or quoted.
func canQuoteLabel(name string) bool {
	for _, r := range name {
		if !isQuotedLabelChar(r) {
			return false
		}
	}

	return true
}
