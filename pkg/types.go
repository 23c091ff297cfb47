package dhall

import (
	"strings"
)

// Type is the Dhall type of a value or of a type annotation.
type Type interface {
	String() string
	Equals(t2 Type) bool
}

type BasicType struct {
	Typ string
}

var (
	BoolType    = &BasicType{"Bool"}
	NaturalType = &BasicType{"Natural"}
	IntegerType = &BasicType{"Integer"}
	DoubleType  = &BasicType{"Double"}
	TextType    = &BasicType{"Text"}
)

func (t *BasicType) String() string {
	return t.Typ
}

func (t *BasicType) Equals(t2 Type) bool {
	if typ, ok := t2.(*BasicType); ok {
		return t.Typ == typ.Typ
	}

	return false
}

// ListType is `List Elem`. A nil Elem is the element type of an empty list
// written without annotation; it is only equal to another unknown element
// type.
type ListType struct {
	Elem Type
}

func (t *ListType) String() string {
	if t.Elem == nil {
		return "List ?"
	}

	return "List " + argString(t.Elem)
}

func (t *ListType) Equals(t2 Type) bool {
	typ, ok := t2.(*ListType)
	if !ok {
		return false
	}

	if t.Elem == nil || typ.Elem == nil {
		return t.Elem == nil && typ.Elem == nil
	}

	return t.Elem.Equals(typ.Elem)
}

type OptionalType struct {
	Elem Type
}

func (t *OptionalType) String() string {
	return "Optional " + argString(t.Elem)
}

func (t *OptionalType) Equals(t2 Type) bool {
	if typ, ok := t2.(*OptionalType); ok {
		return t.Elem.Equals(typ.Elem)
	}

	return false
}

type FieldType struct {
	Name string
	Type Type
}

// RecordType lists its fields in source order. Equality ignores the order,
// as Dhall does.
type RecordType struct {
	Fields []FieldType
}

func (t *RecordType) String() string {
	if len(t.Fields) == 0 {
		return "{}"
	}

	var str strings.Builder
	str.WriteString("{ ")

	for i, f := range t.Fields {
		str.WriteString(formatLabel(f.Name))
		str.WriteString(" : ")
		str.WriteString(f.Type.String())

		if i != len(t.Fields)-1 {
			str.WriteString(", ")
		}
	}
	str.WriteString(" }")

	return str.String()
}

func (t *RecordType) Equals(t2 Type) bool {
	typ, ok := t2.(*RecordType)
	if !ok || len(t.Fields) != len(typ.Fields) {
		return false
	}

	for _, f := range t.Fields {
		other := typ.Field(f.Name)
		if other == nil || !f.Type.Equals(other) {
			return false
		}
	}

	return true
}

func (t *RecordType) Field(name string) Type {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}

	return nil
}

func argString(t Type) string {
	switch t.(type) {
	case *ListType, *OptionalType:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// ParseType parses Dhall type syntax such as `List { name : Text }`.
func ParseType(src string) (Type, error) {
	t, err := ParseTypeExpr(src)
	if err != nil {
		return nil, err
	}

	typ, typErr := resolveType(t)
	if typErr != nil {
		return nil, typErr
	}

	return typ, nil
}

func resolveType(expr TypeExpr) (Type, *Error) {
	switch e := expr.(type) {
	case *BadExpr:
		return nil, e.Err
	case *BasicTypeExpr:
		return &BasicType{e.Name}, nil
	case *ListTypeExpr:
		elem, err := resolveType(e.Elem)
		if err != nil {
			return nil, err
		}

		return &ListType{Elem: elem}, nil
	case *OptionalTypeExpr:
		elem, err := resolveType(e.Elem)
		if err != nil {
			return nil, err
		}

		return &OptionalType{Elem: elem}, nil
	case *RecordTypeExpr:
		rec := &RecordType{}
		for _, f := range e.Fields {
			t, err := resolveType(f.Type)
			if err != nil {
				return nil, err
			}

			rec.Fields = append(rec.Fields, FieldType{Name: f.Name, Type: t})
		}

		return rec, nil
	}

	return nil, reduceErrorf(expr.GetLocation(), CodeUnsupported, "unknown type expression")
}
