package lenient

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// CollectionAdapter reads JSON arrays into lists and sets and writes them back.
// Its shape, mode and element adapter are fixed at construction.
//
// A strict adapter streams the array and fails on the first bad element. A
// tolerant adapter materializes the whole array first, converts each element
// on its own, and records failures in the reader's MismatchLog. Syntax errors
// are fatal in both modes.
type CollectionAdapter struct {
	typ      reflect.Type
	shape    Shape
	tolerant bool
	elem     Adapter
	logger   *zap.Logger
}

// NewCollectionAdapter builds a collection adapter for container type t.
// Prefer Registry.Adapter, which also resolves the element adapter.
func NewCollectionAdapter(t reflect.Type, shape Shape, mode Mode, elem Adapter, logger *zap.Logger) *CollectionAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionAdapter{typ: t, shape: shape, tolerant: mode == Tolerant, elem: elem, logger: logger}
}

// Shape returns the container shape.
func (c *CollectionAdapter) Shape() Shape { return c.shape }

// Mode returns the fault-tolerance mode.
func (c *CollectionAdapter) Mode() Mode {
	if c.tolerant {
		return Tolerant
	}
	return Strict
}

// Elem returns the element adapter.
func (c *CollectionAdapter) Elem() Adapter { return c.elem }

func (c *CollectionAdapter) String() string { return c.elem.String() + ".collection()" }

// Read decodes the next array from r.
func (c *CollectionAdapter) Read(r *Reader) (any, error) {
	if c.tolerant {
		v, err := r.ReadValue()
		if err != nil {
			return nil, err
		}
		return c.FromValue(r, v)
	}

	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	out, ins := c.newContainer()
	for {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		e, err := c.elem.Read(r)
		if err != nil {
			return nil, err
		}
		if err := ins.insert(e); err != nil {
			return nil, IssueAt(r, CodeInvalidType, err.Error(), err)
		}
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

// FromValue builds the container from an already materialized []any.
func (c *CollectionAdapter) FromValue(r *Reader, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, IssueAt(r, CodeInvalidType, "expected array", nil)
	}
	out, ins := c.newContainer()
	for i, raw := range arr {
		r.enterIndex(i)
		err := c.convert(r, ins, raw)
		if err != nil && c.tolerant {
			path := r.Path()
			r.MismatchLog().AddRemovedElement(RemovedElement{Path: path, Err: err})
			c.logger.Debug("dropped collection element",
				zap.String("path", path),
				zap.Stringer("adapter", c),
				zap.Error(err))
			err = nil
		}
		r.leaveIndex()
		if err != nil {
			return nil, err
		}
	}
	return out.Elem().Interface(), nil
}

func (c *CollectionAdapter) convert(r *Reader, ins inserter, raw any) error {
	e, err := c.elem.FromValue(r, raw)
	if err != nil {
		return err
	}
	if err := ins.insert(e); err != nil {
		return IssueAt(r, CodeInvalidType, err.Error(), err)
	}
	return nil
}

// Write encodes the container as a JSON array.
func (c *CollectionAdapter) Write(w *Writer, v any) error {
	elems, err := collectionElements(v)
	if err != nil {
		return err
	}
	if err := w.BeginArray(); err != nil {
		return err
	}
	for _, e := range elems {
		if err := c.elem.Write(w, e); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// newContainer returns a pointer to a fresh, non-nil container and its inserter.
func (c *CollectionAdapter) newContainer() (reflect.Value, inserter) {
	ptr := reflect.New(c.typ)
	if c.typ.Kind() == reflect.Slice {
		ptr.Elem().Set(reflect.MakeSlice(c.typ, 0, 0))
	}
	if ins, ok := ptr.Interface().(inserter); ok {
		return ptr, ins
	}
	return ptr, sliceInserter{slice: ptr.Elem()}
}

// sliceInserter appends to plain Go slices.
type sliceInserter struct{ slice reflect.Value }

func (s sliceInserter) insert(v any) error {
	et := s.slice.Type().Elem()
	if v == nil {
		s.slice.Set(reflect.Append(s.slice, reflect.Zero(et)))
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(et):
	case rv.Type().ConvertibleTo(et):
		rv = rv.Convert(et)
	default:
		return fmt.Errorf("lenient: element %T is not %s", v, et)
	}
	s.slice.Set(reflect.Append(s.slice, rv))
	return nil
}

func collectionElements(v any) ([]any, error) {
	if el, ok := v.(elementer); ok {
		return el.elements(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as array", v), nil)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
