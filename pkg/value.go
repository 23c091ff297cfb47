package dhall

import "fmt"

// Value is a fully reduced Dhall literal.
type Value interface {
	Type() Type
}

type Bool bool

// Natural is never negative.
type Natural int64

type Integer int64

type Double float64

type Text string

func (Bool) Type() Type    { return BoolType }
func (Natural) Type() Type { return NaturalType }
func (Integer) Type() Type { return IntegerType }
func (Double) Type() Type  { return DoubleType }
func (Text) Type() Type    { return TextType }

// List holds items that all have the same type. Build it with NewList.
type List struct {
	elem  Type
	items []Value
}

// NewList builds a list of items. elem is the element type; it may be nil
// when items is not empty, in which case the first item decides it. A nil
// elem with no items is a list whose element type is unknown.
func NewList(elem Type, items ...Value) (*List, error) {
	for i, item := range items {
		if err := checkItem(item); err != nil {
			err.Path = fmt.Sprintf("[%d]", i)
			return nil, err
		}
	}

	if elem == nil && len(items) != 0 {
		elem = items[0].Type()
	}

	for i, item := range items {
		if t := item.Type(); !t.Equals(elem) {
			return nil, listMismatch(i, elem, t)
		}
	}

	return &List{
		elem:  elem,
		items: append([]Value(nil), items...),
	}, nil
}

// checkItem rejects what cannot be an element or a field: a missing value
// and a Natural below zero.
func checkItem(v Value) *Error {
	switch n := v.(type) {
	case nil:
		return &Error{Kind: ReduceError, Code: CodeUnrepresentable, Message: "missing value"}
	case Natural:
		if n < 0 {
			return &Error{Kind: ReduceError, Code: CodeOutOfRange, Message: fmt.Sprintf("negative Natural %d", int64(n))}
		}
	}

	return nil
}

func listMismatch(index int, want, got Type) *Error {
	code := CodeMixedList
	switch {
	case isSignClass(want) && isSignClass(got):
		code = CodeMixedSign
	case isUnknownList(want) || isUnknownList(got):
		code = CodeEmptyList
	}

	return &Error{
		Kind:     ReduceError,
		Code:     code,
		Path:     fmt.Sprintf("[%d]", index),
		Expected: want.String(),
		Found:    got.String(),
	}
}

func isSignClass(t Type) bool {
	t = unwrapOptional(t)
	return t.Equals(NaturalType) || t.Equals(IntegerType)
}

func isUnknownList(t Type) bool {
	l, ok := unwrapOptional(t).(*ListType)
	return ok && l.Elem == nil
}

func unwrapOptional(t Type) Type {
	if o, ok := t.(*OptionalType); ok {
		return o.Elem
	}

	return t
}

func (l *List) Type() Type {
	return &ListType{Elem: l.elem}
}

func (l *List) Elem() Type {
	return l.elem
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Index(i int) Value {
	return l.items[i]
}

func (l *List) Items() []Value {
	return append([]Value(nil), l.items...)
}

type Field struct {
	Name  string
	Value Value
}

// Record keeps its fields in the order they were given. Build it with
// NewRecord.
type Record struct {
	fields []Field
}

func NewRecord(fields ...Field) (*Record, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := checkItem(f.Value); err != nil {
			err.Path = "." + f.Name
			return nil, err
		}

		if seen[f.Name] {
			return nil, &Error{Kind: ReduceError, Code: CodeDuplicateField, Message: fmt.Sprintf("%q", f.Name)}
		}
		seen[f.Name] = true
	}

	return &Record{fields: append([]Field(nil), fields...)}, nil
}

func (r *Record) Type() Type {
	t := &RecordType{}
	for _, f := range r.fields {
		t.Fields = append(t.Fields, FieldType{Name: f.Name, Type: f.Value.Type()})
	}

	return t
}

func (r *Record) Len() int {
	return len(r.fields)
}

func (r *Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// Optional is `Some value` or, when value is nil, `None elem`.
type Optional struct {
	elem  Type
	value Value
}

// None is an absent value of type elem. A nil elem means the empty record,
// the type Encode gives nil.
func None(elem Type) *Optional {
	if elem == nil {
		elem = &RecordType{}
	}

	return &Optional{elem: elem}
}

// Some wraps v. Some(nil) is the same as None(nil).
func Some(v Value) *Optional {
	if v == nil {
		return None(nil)
	}

	return &Optional{elem: v.Type(), value: v}
}

func (o *Optional) Type() Type {
	return &OptionalType{Elem: o.elem}
}

func (o *Optional) IsNone() bool {
	return o.value == nil
}

// Value returns the wrapped value, nil for None.
func (o *Optional) Value() Value {
	return o.value
}
