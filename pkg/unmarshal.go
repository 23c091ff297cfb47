package dhall

import (
	"fmt"
	"reflect"
)

// Unmarshal decodes src and stores the result in the value pointed to by v.
//
// Records fill structs and string-keyed maps. Struct fields are matched by
// their `dhall` tag, falling back to the field name:
//   - `dhall:"name"` maps record field "name" to this struct field
//   - `dhall:"name,required"` fails when the record has no field "name"
//   - `dhall:"-"` ignores this field
//
// None leaves pointers, slices, maps and interfaces nil.
//
// Failures after decoding are reduce errors carrying the path of the
// offending value: CodeTypeMismatch, CodeMissingField or CodeUnsupported.
// A target that is not a non-nil pointer fails with CodeBadTarget.
//
// Example:
//
//	type Config struct {
//	    Host    string   `dhall:"host"`
//	    Port    int      `dhall:"port,required"`
//	    Tags    []string `dhall:"tags"`
//	    Timeout *float64 `dhall:"timeout"`
//	}
func Unmarshal(src string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &Error{Kind: ReduceError, Code: CodeBadTarget, Message: "got " + describeTarget(v)}
	}

	native, err := Decode(src)
	if err != nil {
		return err
	}

	return setField(rv.Elem(), native, "")
}

func setField(field reflect.Value, value any, path string) error {
	if value == nil {
		switch field.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
			field.Set(reflect.Zero(field.Type()))
			return nil
		}

		return mismatch(path, value, field)
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return mismatch(path, value, field)
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := value.(int64)
		if !ok || field.OverflowInt(n) {
			return mismatch(path, value, field)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := value.(int64)
		if !ok || n < 0 || field.OverflowUint(uint64(n)) {
			return mismatch(path, value, field)
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		return setFloat(field, value, path)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return mismatch(path, value, field)
		}
		field.SetBool(b)
	case reflect.Slice:
		return setSlice(field, value, path)
	case reflect.Array:
		return setArray(field, value, path)
	case reflect.Map:
		return setMap(field, value, path)
	case reflect.Struct:
		m, ok := value.(Map)
		if !ok {
			return mismatch(path, value, field)
		}
		return unmarshalStruct(m, field, path)
	case reflect.Ptr:
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), value, path); err != nil {
			return err
		}
		field.Set(ptr)
	case reflect.Interface:
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(field.Type()) {
			return mismatch(path, value, field)
		}
		field.Set(rv)
	default:
		return &Error{Kind: ReduceError, Code: CodeUnsupported, Path: path, Message: fmt.Sprintf("field type %s", field.Type())}
	}

	return nil
}

func setFloat(field reflect.Value, value any, path string) error {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	default:
		return mismatch(path, value, field)
	}

	if field.OverflowFloat(f) {
		return mismatch(path, value, field)
	}
	field.SetFloat(f)

	return nil
}

func setSlice(field reflect.Value, value any, path string) error {
	items, ok := value.([]any)
	if !ok {
		return mismatch(path, value, field)
	}

	slice := reflect.MakeSlice(field.Type(), len(items), len(items))
	for i, item := range items {
		if err := setField(slice.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	field.Set(slice)

	return nil
}

func setArray(field reflect.Value, value any, path string) error {
	items, ok := value.([]any)
	if !ok || len(items) != field.Len() {
		return mismatch(path, value, field)
	}

	for i, item := range items {
		if err := setField(field.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}

func setMap(field reflect.Value, value any, path string) error {
	entries, ok := value.(Map)
	if !ok || field.Type().Key().Kind() != reflect.String {
		return mismatch(path, value, field)
	}

	m := reflect.MakeMapWithSize(field.Type(), len(entries))
	for _, entry := range entries {
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setField(elem, entry.Value, path+"."+entry.Key); err != nil {
			return err
		}
		m.SetMapIndex(reflect.ValueOf(entry.Key).Convert(field.Type().Key()), elem)
	}
	field.Set(m)

	return nil
}

func unmarshalStruct(data Map, v reflect.Value, path string) error {
	for _, f := range structFields(v.Type(), false) {
		value, ok := data.Get(f.name)
		if !ok {
			if f.required {
				return &Error{Kind: ReduceError, Code: CodeMissingField, Path: path + "." + f.name}
			}
			continue
		}

		if err := setField(v.Field(f.index), value, path+"."+f.name); err != nil {
			return err
		}
	}

	return nil
}

func mismatch(path string, value any, field reflect.Value) error {
	return &Error{
		Kind:     ReduceError,
		Code:     CodeTypeMismatch,
		Path:     path,
		Expected: field.Type().String(),
		Found:    describeNative(value),
	}
}

func describeNative(value any) string {
	switch value.(type) {
	case nil:
		return "None"
	case Map:
		return "record"
	case []any:
		return "list"
	}

	return fmt.Sprintf("%T", value)
}

func describeTarget(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
