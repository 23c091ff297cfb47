package dhall

import "math"

// Reducer turns a parsed literal expression into a Value. For the literal
// subset every node maps to exactly one value; lists and records keep their
// order.
type Reducer struct{}

func NewReducer() *Reducer {
	return &Reducer{}
}

// Reduce reduces expr with a fresh Reducer.
func Reduce(expr Expr) (Value, error) {
	return NewReducer().Reduce(expr)
}

func (r *Reducer) Reduce(expr Expr) (Value, error) {
	v, err := r.reduce(expr)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (r *Reducer) reduce(expr Expr) (Value, *Error) {
	switch e := expr.(type) {
	case *BadExpr:
		return nil, e.Err
	case *BoolLiteral:
		return Bool(e.Value), nil
	case *NaturalLiteral:
		return Natural(e.Value), nil
	case *IntegerLiteral:
		return Integer(e.Value), nil
	case *DoubleLiteral:
		return Double(e.Value), nil
	case *TextLiteral:
		return Text(e.Value), nil
	case *ListLiteral:
		return r.list(e)
	case *RecordLiteral:
		return r.record(e)
	case *NoneExpr:
		t, err := resolveType(e.Annotation)
		if err != nil {
			return nil, err
		}

		return None(t), nil
	case *SomeExpr:
		v, err := r.reduce(e.Value)
		if err != nil {
			return nil, err
		}

		return Some(v), nil
	case *AnnotatedExpr:
		return r.annotated(e)
	case *UnaryExpr:
		return r.unary(e)
	case *Identifier:
		return nil, reduceErrorf(e.Location, CodeUnsupported, "variable %q", e.Name)
	case nil:
		return nil, reduceErrorf(nil, CodeUnsupported, "empty expression")
	}

	return nil, reduceErrorf(expr.GetLocation(), CodeUnsupported, "%T", expr)
}

func (r *Reducer) list(e *ListLiteral) (Value, *Error) {
	var elem Type
	if e.Annotation != nil {
		t, err := resolveType(e.Annotation)
		if err != nil {
			return nil, err
		}

		lt, isList := t.(*ListType)
		if !isList {
			return nil, &Error{
				Kind:     ReduceError,
				Code:     CodeTypeMismatch,
				Loc:      e.Annotation.GetLocation(),
				Expected: "List type",
				Found:    t.String(),
			}
		}
		elem = lt.Elem
	}

	items := make([]Value, 0, len(e.Elems))
	for _, child := range e.Elems {
		v, err := r.reduce(child)
		if err != nil {
			return nil, err
		}

		items = append(items, v)
	}

	list, err := NewList(elem, items...)
	if err != nil {
		listErr := err.(*Error)
		listErr.Loc = e.Location
		if i := mismatchIndex(items, elem); i >= 0 {
			listErr.Loc = e.Elems[i].GetLocation()
		}

		return nil, listErr
	}

	return list, nil
}

// mismatchIndex finds the first item whose type differs from elem, or from
// the first item when elem is nil.
func mismatchIndex(items []Value, elem Type) int {
	if elem == nil && len(items) != 0 {
		elem = items[0].Type()
	}

	for i, item := range items {
		if !item.Type().Equals(elem) {
			return i
		}
	}

	return -1
}

func (r *Reducer) record(e *RecordLiteral) (Value, *Error) {
	fields := make([]Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		v, err := r.reduce(f.Value)
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{Name: f.Name, Value: v})
	}

	rec, err := NewRecord(fields...)
	if err != nil {
		recErr := err.(*Error)
		recErr.Loc = e.Location
		return nil, recErr
	}

	return rec, nil
}

func (r *Reducer) annotated(e *AnnotatedExpr) (Value, *Error) {
	v, err := r.reduce(e.Expr)
	if err != nil {
		return nil, err
	}

	t, err := resolveType(e.Annotation)
	if err != nil {
		return nil, err
	}

	if !v.Type().Equals(t) {
		return nil, &Error{
			Kind:     ReduceError,
			Code:     CodeTypeMismatch,
			Loc:      e.Location,
			Expected: t.String(),
			Found:    v.Type().String(),
		}
	}

	return v, nil
}

func (r *Reducer) unary(e *UnaryExpr) (Value, *Error) {
	v, err := r.reduce(e.Operand)
	if err != nil {
		return nil, err
	}

	switch n := v.(type) {
	case Double:
		return -n, nil
	case Natural:
		return Integer(-n), nil
	case Integer:
		if n == math.MinInt64 {
			return nil, reduceErrorf(e.Location, CodeOutOfRange, "-(%d) does not fit in 64 bits", int64(n))
		}
		return -n, nil
	}

	return nil, reduceErrorf(e.Location, CodeUnsupported, "negation of %s", v.Type())
}
