package lenient

import (
	"fmt"
	"iter"
	"reflect"

	gojson "github.com/goccy/go-json"
)

// Shape is the closed set of collection shapes.
type Shape int

const (
	ShapeList Shape = iota // ordered sequence, duplicates allowed
	ShapeSet               // first-occurrence order, duplicates collapsed
)

func (s Shape) String() string {
	if s == ShapeSet {
		return "set"
	}
	return "list"
}

// Mode selects how a collection treats elements that fail to convert.
type Mode int

const (
	Strict   Mode = iota // first failing element fails the decode
	Tolerant             // failing elements are dropped and logged
)

func (m Mode) String() string {
	if m == Tolerant {
		return "tolerant"
	}
	return "strict"
}

type collectionInfo struct {
	shape    Shape
	tolerant bool
	elem     reflect.Type
}

// collectionType is implemented by the container types of this package.
type collectionType interface {
	collectionInfo() collectionInfo
}

// inserter receives decoded elements; nil means the element type's zero value.
type inserter interface {
	insert(v any) error
}

// elementer lists elements of non-slice containers in iteration order.
type elementer interface {
	elements() []any
}

func castElem[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("lenient: element %T is not %s", v, reflect.TypeFor[T]())
	}
	return tv, nil
}

// List is an ordered sequence decoded strictly.
type List[T any] []T

func (List[T]) collectionInfo() collectionInfo {
	return collectionInfo{shape: ShapeList, elem: reflect.TypeFor[T]()}
}

func (l *List[T]) insert(v any) error {
	e, err := castElem[T](v)
	if err != nil {
		return err
	}
	*l = append(*l, e)
	return nil
}

// LenientList is an ordered sequence whose invalid elements are dropped and
// recorded in the session's MismatchLog instead of failing the decode.
type LenientList[T any] []T

func (LenientList[T]) collectionInfo() collectionInfo {
	return collectionInfo{shape: ShapeList, tolerant: true, elem: reflect.TypeFor[T]()}
}

func (l *LenientList[T]) insert(v any) error {
	e, err := castElem[T](v)
	if err != nil {
		return err
	}
	*l = append(*l, e)
	return nil
}

// Set is an insertion-ordered set decoded strictly. The zero value is an empty
// set ready to use.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

// NewSet returns a set holding values, duplicates collapsed.
func NewSet[T comparable](values ...T) Set[T] {
	var s Set[T]
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (Set[T]) collectionInfo() collectionInfo {
	return collectionInfo{shape: ShapeSet, elem: reflect.TypeFor[T]()}
}

// Add inserts v and reports whether it was new. A duplicate keeps the position
// of its first occurrence.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct elements.
func (s Set[T]) Len() int { return len(s.items) }

// Values returns the elements in insertion order.
func (s Set[T]) Values() []T { return append([]T{}, s.items...) }

// All iterates the elements in insertion order.
func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

// MarshalJSON encodes the set as a JSON array.
func (s Set[T]) MarshalJSON() ([]byte, error) { return gojson.Marshal(s.Values()) }

func (s *Set[T]) insert(v any) error {
	e, err := castElem[T](v)
	if err != nil {
		return err
	}
	// interface element types can carry maps and slices, which cannot be hashed
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return fmt.Errorf("lenient: set element %T is not comparable", v)
	}
	return s.addChecked(e)
}

// addChecked is Add for values whose dynamic parts may still be unhashable,
// such as an array or struct holding a map in an interface field.
func (s *Set[T]) addChecked(v T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lenient: set element %T is not comparable: %v", v, p)
		}
	}()
	s.Add(v)
	return nil
}

func (s Set[T]) elements() []any {
	out := make([]any, len(s.items))
	for i, v := range s.items {
		out[i] = v
	}
	return out
}

// LenientSet is a Set whose invalid elements are dropped and recorded in the
// session's MismatchLog instead of failing the decode.
type LenientSet[T comparable] struct {
	Set[T]
}

// NewLenientSet returns a lenient set holding values, duplicates collapsed.
func NewLenientSet[T comparable](values ...T) LenientSet[T] {
	return LenientSet[T]{Set: NewSet(values...)}
}

func (LenientSet[T]) collectionInfo() collectionInfo {
	return collectionInfo{shape: ShapeSet, tolerant: true, elem: reflect.TypeFor[T]()}
}
