package lenient

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	numberType = reflect.TypeFor[json.Number]()
	timeType   = reflect.TypeFor[time.Time]()
	uuidType   = reflect.TypeFor[uuid.UUID]()
)

// scalarFactory covers strings, booleans, integers, floats (including named
// types of those kinds), json.Number, time.Time, uuid.UUID, empty interfaces
// and pointers to any resolvable type.
type scalarFactory struct{}

func (scalarFactory) Create(t reflect.Type, reg *Registry) (Adapter, error) {
	switch t {
	case numberType:
		return NumberAdapter(), nil
	case timeType:
		return TimeAdapter(), nil
	case uuidType:
		return UUIDAdapter(), nil
	}
	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return anyAdapter{}, nil
		}
	case reflect.Pointer:
		elem, err := reg.Adapter(t.Elem())
		if err != nil {
			return nil, err
		}
		return NullSafe(pointerAdapter{typ: t, elem: elem}), nil
	case reflect.String:
		return kindAdapter{typ: t, from: stringFrom}, nil
	case reflect.Bool:
		return kindAdapter{typ: t, from: boolFrom}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindAdapter{typ: t, from: intFrom}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindAdapter{typ: t, from: uintFrom}, nil
	case reflect.Float32, reflect.Float64:
		return kindAdapter{typ: t, from: floatFrom}, nil
	}
	return nil, nil
}

// kindAdapter converts materialized values into t via its reflect.Kind.
type kindAdapter struct {
	typ  reflect.Type
	from func(r *Reader, v any, t reflect.Type) (reflect.Value, error)
}

func (k kindAdapter) Read(r *Reader) (any, error) {
	v, err := r.ReadValue()
	if err != nil {
		return nil, err
	}
	return k.FromValue(r, v)
}

func (k kindAdapter) FromValue(r *Reader, v any) (any, error) {
	rv, err := k.from(r, v, k.typ)
	if err != nil {
		return nil, err
	}
	return rv.Convert(k.typ).Interface(), nil
}

func (k kindAdapter) Write(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != k.typ.Kind() {
		return IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as %s", v, k.typ), nil)
	}
	switch rv.Kind() {
	case reflect.String:
		return w.String(rv.String())
	case reflect.Bool:
		return w.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.Number(json.Number(strconv.FormatInt(rv.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return w.Number(json.Number(strconv.FormatUint(rv.Uint(), 10)))
	default:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return IssueAt(nil, CodeInvalidType, "NaN and Inf are not JSON numbers", nil)
		}
		return w.Number(json.Number(strconv.FormatFloat(f, 'g', -1, rv.Type().Bits())))
	}
}

func (k kindAdapter) String() string { return k.typ.String() }

func stringFrom(r *Reader, v any, _ reflect.Type) (reflect.Value, error) {
	s, ok := v.(string)
	if !ok {
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected string", nil)
	}
	return reflect.ValueOf(s), nil
}

func boolFrom(r *Reader, v any, _ reflect.Type) (reflect.Value, error) {
	b, ok := v.(bool)
	if !ok {
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected boolean", nil)
	}
	return reflect.ValueOf(b), nil
}

func intFrom(r *Reader, v any, t reflect.Type) (reflect.Value, error) {
	bits := t.Bits()
	var f float64
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, bits)
		if err == nil {
			return reflect.ValueOf(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), err)
		}
		// 1e3 or 2.0 are integers too
		if f, err = strconv.ParseFloat(string(n), 64); err != nil {
			if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
				return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), err)
			}
			return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected integer", err)
		}
	case float64:
		f = n
	default:
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected integer", nil)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected integer", nil)
	}
	limit := math.Ldexp(1, bits-1)
	if f < -limit || f >= limit {
		return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), nil)
	}
	return reflect.ValueOf(int64(f)), nil
}

func uintFrom(r *Reader, v any, t reflect.Type) (reflect.Value, error) {
	bits := t.Bits()
	var f float64
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(string(n), 10, bits)
		if err == nil {
			return reflect.ValueOf(u), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), err)
		}
		if f, err = strconv.ParseFloat(string(n), 64); err != nil {
			if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
				return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), err)
			}
			return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected unsigned integer", err)
		}
	case float64:
		f = n
	default:
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected unsigned integer", nil)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected unsigned integer", nil)
	}
	if f < 0 || f >= math.Ldexp(1, bits) {
		return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), nil)
	}
	return reflect.ValueOf(uint64(f)), nil
}

func floatFrom(r *Reader, v any, t reflect.Type) (reflect.Value, error) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		if f, err = strconv.ParseFloat(string(n), t.Bits()); err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), err)
			}
			return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected number", err)
		}
	case float64:
		f = n
		if t.Bits() == 32 && math.Abs(f) > math.MaxFloat32 {
			return reflect.Value{}, IssueAt(r, CodeOverflow, "out of range for "+t.String(), nil)
		}
	default:
		return reflect.Value{}, IssueAt(r, CodeInvalidType, "expected number", nil)
	}
	return reflect.ValueOf(f), nil
}

type numberAdapter struct{}

// NumberAdapter keeps numbers as json.Number text.
func NumberAdapter() Adapter { return numberAdapter{} }

func (numberAdapter) Read(r *Reader) (any, error) {
	tok, err := r.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokenNumber {
		return nil, IssueAt(r, CodeInvalidType, "expected number", nil)
	}
	return json.Number(tok.Number), nil
}

func (numberAdapter) FromValue(r *Reader, v any) (any, error) {
	switch n := v.(type) {
	case json.Number:
		return n, nil
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), nil
	}
	return nil, IssueAt(r, CodeInvalidType, "expected number", nil)
}

func (numberAdapter) Write(w *Writer, v any) error {
	n, ok := v.(json.Number)
	if !ok {
		return IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as json.Number", v), nil)
	}
	return w.Number(n)
}

func (numberAdapter) String() string { return "json.Number" }

// anyAdapter passes materialized values through untouched.
type anyAdapter struct{}

func (anyAdapter) Read(r *Reader) (any, error)             { return r.ReadValue() }
func (anyAdapter) FromValue(_ *Reader, v any) (any, error) { return v, nil }
func (anyAdapter) Write(w *Writer, v any) error            { return w.Value(v) }
func (anyAdapter) String() string                          { return "any" }

type pointerAdapter struct {
	typ  reflect.Type
	elem Adapter
}

func (p pointerAdapter) Read(r *Reader) (any, error) {
	e, err := p.elem.Read(r)
	if err != nil {
		return nil, err
	}
	return p.wrap(r, e)
}

func (p pointerAdapter) FromValue(r *Reader, v any) (any, error) {
	e, err := p.elem.FromValue(r, v)
	if err != nil {
		return nil, err
	}
	return p.wrap(r, e)
}

func (p pointerAdapter) wrap(r *Reader, e any) (any, error) {
	ptr := reflect.New(p.typ.Elem())
	if e != nil {
		ev := reflect.ValueOf(e)
		if !ev.Type().AssignableTo(p.typ.Elem()) {
			return nil, IssueAt(r, CodeInvalidType, fmt.Sprintf("%T is not %s", e, p.typ.Elem()), nil)
		}
		ptr.Elem().Set(ev)
	}
	return ptr.Interface(), nil
}

func (p pointerAdapter) Write(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return IssueAt(nil, CodeInvalidType, fmt.Sprintf("cannot encode %T as %s", v, p.typ), nil)
	}
	return p.elem.Write(w, rv.Elem().Interface())
}

func (p pointerAdapter) String() string { return "*" + p.elem.String() }
