package lenient

import (
	"fmt"
	"reflect"
	"strconv"
)

// EnumAdapter maps JSON string literals to the constants of T.
//
// An unknown literal fails with invalid_enum. When a fallback is configured the
// fallback is returned instead and the literal is recorded as an UnknownEnum in
// the session's MismatchLog.
type EnumAdapter[T comparable] struct {
	byName   map[string]T
	names    map[T]string
	fallback *T
}

// Enum builds an enum adapter from literal-to-constant pairs.
func Enum[T comparable](names map[string]T) *EnumAdapter[T] {
	e := &EnumAdapter[T]{byName: make(map[string]T, len(names)), names: make(map[T]string, len(names))}
	for n, v := range names {
		e.byName[n] = v
		e.names[v] = n
	}
	return e
}

// StringEnum builds an enum adapter for string-backed constants, using each
// constant's own text as its literal.
func StringEnum[T ~string](values ...T) *EnumAdapter[T] {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[string(v)] = v
	}
	return Enum(m)
}

// WithFallback returns a copy of the adapter that maps unknown literals to v.
func (e *EnumAdapter[T]) WithFallback(v T) *EnumAdapter[T] {
	c := *e
	c.fallback = &v
	return &c
}

// Read decodes the next string literal from r as a constant.
func (e *EnumAdapter[T]) Read(r *Reader) (any, error) {
	v, err := r.ReadValue()
	if err != nil {
		return nil, err
	}
	return e.FromValue(r, v)
}

// FromValue maps a materialized string to its constant, or to the fallback.
func (e *EnumAdapter[T]) FromValue(r *Reader, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, IssueAt(r, CodeInvalidType, "expected enum string", nil)
	}
	if c, ok := e.byName[s]; ok {
		return c, nil
	}
	if e.fallback != nil {
		r.MismatchLog().AddUnknownEnum(UnknownEnum{Path: r.Path(), Name: s})
		return *e.fallback, nil
	}
	return nil, IssueAt(r, CodeInvalidEnum, "unknown value "+strconv.Quote(s), nil)
}

// Write encodes the constant as its string literal.
func (e *EnumAdapter[T]) Write(w *Writer, v any) error {
	c, ok := v.(T)
	if !ok {
		return IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as %s", v, e), nil)
	}
	name, ok := e.names[c]
	if !ok {
		return IssueAt(nil, CodeInvalidEnum, fmt.Sprintf("no literal for %v", c), nil)
	}
	return w.String(name)
}

func (e *EnumAdapter[T]) String() string { return "enum[" + reflect.TypeFor[T]().String() + "]" }
