package lenient

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// ErrWriterState is returned when tokens are written out of order.
var ErrWriterState = errors.New("lenient: invalid writer state")

// Writer emits JSON tokens to an io.Writer. The first error sticks and is
// returned by every later call.
type Writer struct {
	w     io.Writer
	stack []writeFrame
	root  bool // a root value has been written
	err   error
}

type writeFrame struct {
	object  bool
	n       int  // values (arrays) or members (objects) written
	nameSet bool // object: name written, value pending
}

// NewWriter returns a Writer emitting compact JSON to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

func (w *Writer) raw(s string) error {
	if w.err != nil {
		return w.err
	}
	if _, err := io.WriteString(w.w, s); err != nil {
		w.err = err
	}
	return w.err
}

// beforeValue writes the separator owed before a value.
func (w *Writer) beforeValue() error {
	if w.err != nil {
		return w.err
	}
	n := len(w.stack)
	if n == 0 {
		if w.root {
			w.err = ErrWriterState
		}
		w.root = true
		return w.err
	}
	top := &w.stack[n-1]
	if top.object {
		if !top.nameSet {
			w.err = ErrWriterState
			return w.err
		}
		top.nameSet = false
		return nil
	}
	if top.n > 0 {
		if err := w.raw(","); err != nil {
			return err
		}
	}
	top.n++
	return nil
}

// BeginArray writes '['.
func (w *Writer) BeginArray() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, writeFrame{})
	return w.raw("[")
}

// EndArray writes ']'.
func (w *Writer) EndArray() error { return w.end(false, "]") }

// BeginObject writes '{'.
func (w *Writer) BeginObject() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, writeFrame{object: true})
	return w.raw("{")
}

// EndObject writes '}'.
func (w *Writer) EndObject() error { return w.end(true, "}") }

func (w *Writer) end(object bool, delim string) error {
	if w.err != nil {
		return w.err
	}
	n := len(w.stack)
	if n == 0 || w.stack[n-1].object != object || w.stack[n-1].nameSet {
		w.err = ErrWriterState
		return w.err
	}
	w.stack = w.stack[:n-1]
	return w.raw(delim)
}

// Name writes an object member name.
func (w *Writer) Name(name string) error {
	if w.err != nil {
		return w.err
	}
	n := len(w.stack)
	if n == 0 || !w.stack[n-1].object || w.stack[n-1].nameSet {
		w.err = ErrWriterState
		return w.err
	}
	top := &w.stack[n-1]
	if top.n > 0 {
		if err := w.raw(","); err != nil {
			return err
		}
	}
	top.n++
	top.nameSet = true
	if err := w.quoted(name); err != nil {
		return err
	}
	return w.raw(":")
}

// Null writes null.
func (w *Writer) Null() error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.raw("null")
}

// Bool writes true or false.
func (w *Writer) Bool(b bool) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.raw(strconv.FormatBool(b))
}

// String writes a quoted, escaped string.
func (w *Writer) String(s string) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.quoted(s)
}

// Number writes a number literal. The literal is validated.
func (w *Writer) Number(n json.Number) error {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		if w.err == nil {
			w.err = err
		}
		return w.err
	}
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.raw(string(n))
}

// Value writes any value using go-json marshaling.
func (w *Writer) Value(v any) error {
	if w.err != nil {
		return w.err
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		w.err = err
		return err
	}
	if err := w.beforeValue(); err != nil {
		return err
	}
	return w.raw(string(b))
}

func (w *Writer) quoted(s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		if w.err == nil {
			w.err = err
		}
		return w.err
	}
	return w.raw(string(b))
}
