package engine

// KeyTracker classifies the strings of a delimiter-based tokenizer
// (encoding/json, go-json) into keys and string values.
type KeyTracker struct {
	stack []trackFrame
}

type trackFrame struct {
	object       bool
	expectingKey bool
}

// Open records a '{' or '['.
func (t *KeyTracker) Open(object bool) {
	t.stack = append(t.stack, trackFrame{object: object, expectingKey: object})
}

// Close records a '}' or ']'. The closed container completes a value in its parent.
func (t *KeyTracker) Close() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.valueDone()
}

// Str returns KindKey when s sits in key position, KindString otherwise.
func (t *KeyTracker) Str() Kind {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	t.valueDone()
	return KindString
}

// Scalar records a number, bool or null value.
func (t *KeyTracker) Scalar() { t.valueDone() }

func (t *KeyTracker) valueDone() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object {
			top.expectingKey = true
		}
	}
}
