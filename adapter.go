package lenient

import (
	"fmt"
	"reflect"
)

// Adapter converts one JSON value to and from its Go representation.
//
// Read consumes exactly one value from the reader. FromValue converts a value
// already materialized by Reader.ReadValue; r is the session it came from and
// its Path points at v. Write emits v.
type Adapter interface {
	Read(r *Reader) (any, error)
	FromValue(r *Reader, v any) (any, error)
	Write(w *Writer, v any) error
	String() string
}

// Factory builds adapters for the types it recognizes. Returning (nil, nil)
// declines the type so the next factory in the chain can try.
type Factory interface {
	Create(t reflect.Type, reg *Registry) (Adapter, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(t reflect.Type, reg *Registry) (Adapter, error)

func (f FactoryFunc) Create(t reflect.Type, reg *Registry) (Adapter, error) { return f(t, reg) }

// NullSafe wraps an adapter so that JSON null reads as nil (absent) and nil
// slices, maps, pointers and interfaces write as null.
func NullSafe(a Adapter) Adapter {
	if _, ok := a.(nullSafe); ok {
		return a
	}
	return nullSafe{a}
}

type nullSafe struct{ inner Adapter }

func (n nullSafe) Read(r *Reader) (any, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenNull {
		_, err := r.NextToken()
		return nil, err
	}
	return n.inner.Read(r)
}

func (n nullSafe) FromValue(r *Reader, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.FromValue(r, v)
}

func (n nullSafe) Write(w *Writer, v any) error {
	if isNil(v) {
		return w.Null()
	}
	return n.inner.Write(w, v)
}

func (n nullSafe) String() string { return n.inner.String() + ".nullSafe()" }

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ScalarAdapter builds an adapter for a value read as a whole: Read
// materializes one value and hands it to from; Write marshals to(v).
func ScalarAdapter[T any](name string, from func(r *Reader, v any) (T, error), to func(T) any) Adapter {
	return scalarAdapter[T]{name: name, from: from, to: to}
}

type scalarAdapter[T any] struct {
	name string
	from func(r *Reader, v any) (T, error)
	to   func(T) any
}

func (s scalarAdapter[T]) Read(r *Reader) (any, error) {
	v, err := r.ReadValue()
	if err != nil {
		return nil, err
	}
	return s.FromValue(r, v)
}

func (s scalarAdapter[T]) FromValue(r *Reader, v any) (any, error) {
	out, err := s.from(r, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s scalarAdapter[T]) Write(w *Writer, v any) error {
	tv, ok := v.(T)
	if !ok {
		return IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as %s", v, s.name), nil)
	}
	if s.to == nil {
		return w.Value(tv)
	}
	return w.Value(s.to(tv))
}

func (s scalarAdapter[T]) String() string { return s.name }
