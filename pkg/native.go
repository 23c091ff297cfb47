package dhall

import "sort"

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered string-keyed mapping. Decoded records come back as a Map
// so that field order survives a round trip; Encode keeps a Map's order.
type Map []Entry

func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, e := range m {
		keys = append(keys, e.Key)
	}

	return keys
}

// Sorted returns a copy of m ordered by key.
func (m Map) Sorted() Map {
	sorted := append(Map(nil), m...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	return sorted
}

// ToNative converts v to plain Go values: bool, int64 for both Natural and
// Integer, float64, string, []any, Map, and nil for None. `Some x` becomes
// the native form of x.
func ToNative(v Value) any {
	switch e := v.(type) {
	case Bool:
		return bool(e)
	case Natural:
		return int64(e)
	case Integer:
		return int64(e)
	case Double:
		return float64(e)
	case Text:
		return string(e)
	case *List:
		items := make([]any, 0, e.Len())
		for _, item := range e.items {
			items = append(items, ToNative(item))
		}

		return items
	case *Record:
		m := make(Map, 0, e.Len())
		for _, f := range e.fields {
			m = append(m, Entry{Key: f.Name, Value: ToNative(f.Value)})
		}

		return m
	case *Optional:
		if e.IsNone() {
			return nil
		}

		return ToNative(e.value)
	}

	return nil
}
