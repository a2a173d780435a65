package lenient

import (
	"strconv"
	"strings"

	eng "github.com/reoring/lenient/internal/engine"
)

// Reader is a decode session over a Source. It tracks the JSON Pointer of the
// value being read and owns the session's MismatchLog. A Reader is not safe for
// concurrent use.
type Reader struct {
	src     Source
	mode    NumberMode
	peeked  *Token
	stack   []pathFrame
	virtual []string
	log     *MismatchLog
	warns   Issues
}

type pathFrame struct {
	array bool
	index int // last started element, -1 before the first
	key   string
}

// NewReader opens a decode session over src. The last ReadOpt wins.
func NewReader(src Source, opts ...ReadOpt) *Reader {
	opt := lastOpt(opts)
	r := &Reader{mode: opt.NumberMode, log: opt.Log}
	if r.log == nil {
		r.log = NewMismatchLog()
	}
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			r.warns = AppendIssues(r.warns, Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
		},
	}
	if eo.Enabled() {
		src = eng.WrapWithEnforcement(src, eo)
	}
	r.src = src
	return r
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// MismatchLog returns the log shared by every adapter in this session.
func (r *Reader) MismatchLog() *MismatchLog { return r.log }

// Warnings returns non-fatal issues raised by the token layer, such as duplicate
// keys under the Warn policy.
func (r *Reader) Warnings() Issues { return r.warns }

// NumberMode reports how ReadValue materializes numbers.
func (r *Reader) NumberMode() NumberMode { return r.mode }

// Location returns the byte offset of the last token read, or -1.
func (r *Reader) Location() int64 { return r.src.Location() }

// Peek returns the next token without consuming it.
func (r *Reader) Peek() (Token, error) {
	if r.peeked != nil {
		return *r.peeked, nil
	}
	tok, err := r.src.NextToken()
	if err != nil {
		return Token{}, tokenError(r, err)
	}
	r.peeked = &tok
	return tok, nil
}

// NextToken consumes the next token and advances the path.
func (r *Reader) NextToken() (Token, error) {
	tok, err := r.Peek()
	if err != nil {
		return Token{}, err
	}
	r.peeked = nil
	r.advance(tok)
	return tok, nil
}

func (r *Reader) advance(tok Token) {
	if tok.IsValueStart() {
		if n := len(r.stack); n > 0 && r.stack[n-1].array {
			r.stack[n-1].index++
		}
	}
	switch tok.Kind {
	case TokenBeginArray:
		r.stack = append(r.stack, pathFrame{array: true, index: -1})
	case TokenBeginObject:
		r.stack = append(r.stack, pathFrame{})
	case TokenEndArray, TokenEndObject:
		if n := len(r.stack); n > 0 {
			r.stack = r.stack[:n-1]
		}
	case TokenKey:
		if n := len(r.stack); n > 0 {
			r.stack[n-1].key = tok.String
		}
	}
}

// BeginArray consumes a '[' token.
func (r *Reader) BeginArray() error { return r.expect(TokenBeginArray, "expected array") }

// EndArray consumes a ']' token.
func (r *Reader) EndArray() error { return r.expect(TokenEndArray, "expected end of array") }

func (r *Reader) expect(kind TokenKind, hint string) error {
	tok, err := r.Peek()
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return IssueAt(r, CodeInvalidType, hint, nil)
	}
	_, err = r.NextToken()
	return err
}

// HasNext reports whether the current array or object has more elements.
func (r *Reader) HasNext() (bool, error) {
	tok, err := r.Peek()
	if err != nil {
		return false, err
	}
	return tok.Kind != TokenEndArray && tok.Kind != TokenEndObject, nil
}

// ReadValue consumes one complete value and returns it as map[string]any,
// []any, string, bool, nil or a number per NumberMode. Malformed JSON fails.
func (r *Reader) ReadValue() (any, error) {
	conv := eng.JSONNumber
	if r.mode == NumberFloat64 {
		conv = eng.Float64
	}
	v, err := eng.DecodeAny(readerTokens{r}, conv)
	if err != nil {
		return nil, tokenError(r, err)
	}
	return v, nil
}

// readerTokens lets the engine decoder pull through the Reader so paths and
// peeked tokens stay consistent.
type readerTokens struct{ r *Reader }

func (t readerTokens) NextToken() (eng.Token, error) { return t.r.NextToken() }
func (t readerTokens) Location() int64               { return t.r.Location() }

// Path returns the JSON Pointer of the most recently read value ("/" at the root).
func (r *Reader) Path() string {
	var b strings.Builder
	for _, f := range r.stack {
		switch {
		case f.array && f.index >= 0:
			b.WriteString("/")
			b.WriteString(strconv.Itoa(f.index))
		case !f.array && f.key != "":
			b.WriteString("/")
			b.WriteString(eng.EscapePointerToken(f.key))
		}
	}
	for _, seg := range r.virtual {
		b.WriteString("/")
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// enterIndex extends Path with an element index of an already materialized array.
func (r *Reader) enterIndex(i int) { r.virtual = append(r.virtual, strconv.Itoa(i)) }

func (r *Reader) leaveIndex() {
	if n := len(r.virtual); n > 0 {
		r.virtual = r.virtual[:n-1]
	}
}
