package dhall

import (
	"math"
	"reflect"
)

// Kind is the Dhall category a native Go value falls into.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindNatural
	KindInteger
	KindDouble
	KindText
	KindList
	KindRecord
)

var kindNames = [...]string{
	KindNone:    "None",
	KindBool:    "Bool",
	KindNatural: "Natural",
	KindInteger: "Integer",
	KindDouble:  "Double",
	KindText:    "Text",
	KindList:    "List",
	KindRecord:  "Record",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}

	return kindNames[k]
}

var (
	mapType   = reflect.TypeOf(Map(nil))
	valueType = reflect.TypeOf((*Value)(nil)).Elem()
)

// Classify decides the Dhall kind of a native value. The checks run in a
// fixed order: nil, bool, integer (split by sign), float, string, then
// containers. Pointers and interfaces are followed; a nil one is None.
func Classify(v any) (Kind, error) {
	k, err := classify(reflect.ValueOf(v), "")
	if err != nil {
		return k, err
	}

	return k, nil
}

func classify(rv reflect.Value, path string) (Kind, *Error) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return KindNone, nil
	}

	if rv.Type().Implements(valueType) {
		if v, ok := rv.Interface().(Value); ok {
			return valueKind(v), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return KindBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return KindInteger, nil
		}

		return KindNatural, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return KindNatural, encodeErrorf(path, CodeOutOfRange, "%d does not fit in 64-bit signed range", rv.Uint())
		}

		return KindNatural, nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return KindDouble, encodeErrorf(path, CodeNonFinite, "%v", f)
		}

		return KindDouble, nil
	case reflect.String:
		return KindText, nil
	}

	if rv.Type() == mapType {
		return KindRecord, nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindList, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return KindRecord, encodeErrorf(path, CodeKeyNotString, "%s", rv.Type().Key())
		}

		return KindRecord, nil
	case reflect.Struct:
		return KindRecord, nil
	}

	return KindNone, encodeErrorf(path, CodeUnrepresentable, "%s", rv.Type())
}

func valueKind(v Value) Kind {
	switch e := v.(type) {
	case Bool:
		return KindBool
	case Natural:
		return KindNatural
	case Integer:
		return KindInteger
	case Double:
		return KindDouble
	case Text:
		return KindText
	case *List:
		return KindList
	case *Record:
		return KindRecord
	case *Optional:
		if e.IsNone() {
			return KindNone
		}

		return valueKind(e.value)
	}

	return KindNone
}

// indirect follows pointers and interfaces. It returns the zero Value when it
// meets a nil.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.Kind() == reflect.Ptr && rv.Type().Implements(valueType) && !rv.IsNil() {
			return rv
		}

		if rv.IsNil() {
			return reflect.Value{}
		}

		rv = rv.Elem()
	}

	return rv
}
