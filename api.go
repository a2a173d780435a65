package lenient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Unmarshal decodes a single JSON document into T and returns the session's
// mismatch log. The adapter for T is resolved before any input is read, so a
// type without an adapter fails with ErrNoAdapter and consumes nothing.
func Unmarshal[T any](data []byte, opts ...DecodeOpt) (T, *MismatchLog, error) {
	opt := lastOpt(opts)
	return unmarshal[T](opt, func(d JSONDriver) Source { return d.NewBytes(data) })
}

// UnmarshalReader is Unmarshal over an io.Reader.
func UnmarshalReader[T any](rd io.Reader, opts ...DecodeOpt) (T, *MismatchLog, error) {
	opt := lastOpt(opts)
	return unmarshal[T](opt, func(d JSONDriver) Source { return d.NewReader(rd) })
}

func unmarshal[T any](opt DecodeOpt, open func(JSONDriver) Source) (T, *MismatchLog, error) {
	var zero T
	reg := opt.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	a, err := AdapterFor[T](reg)
	if err != nil {
		return zero, nil, err
	}
	drv := opt.Driver
	if drv == nil {
		drv = CurrentJSONDriver()
	}
	r := NewReader(open(drv), opt.ReadOpt)
	v, err := decodeWith[T](a, r)
	if err != nil {
		return zero, r.MismatchLog(), err
	}
	if _, err := r.Peek(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = IssueAt(r, CodeParseError, "trailing data after value", nil)
		}
		return zero, r.MismatchLog(), err
	}
	return v, r.MismatchLog(), nil
}

// Decode reads one value of type T from an open session.
func Decode[T any](reg *Registry, r *Reader) (T, error) {
	a, err := AdapterFor[T](reg)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeWith[T](a, r)
}

func decodeWith[T any](a Adapter, r *Reader) (T, error) {
	var zero T
	v, err := a.Read(r)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("lenient: adapter %s produced %T, want %T", a, v, zero)
	}
	return tv, nil
}

// EncodeOpt bundles options for Marshal.
type EncodeOpt struct {
	Registry *Registry
}

// Marshal encodes v as compact JSON.
func Marshal[T any](v T, opts ...EncodeOpt) ([]byte, error) {
	reg := lastOpt(opts).Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	var buf bytes.Buffer
	if err := Encode(reg, NewWriter(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v to w using the adapter registered for T.
func Encode[T any](reg *Registry, w *Writer, v T) error {
	a, err := AdapterFor[T](reg)
	if err != nil {
		return err
	}
	return a.Write(w, v)
}
