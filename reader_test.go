package lenient

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_PathFollowsTokens(t *testing.T) {
	for _, d := range []JSONDriver{GoJSONDriver(), StdlibJSONDriver()} {
		t.Run(d.Name(), func(t *testing.T) {
			r := NewReader(d.NewBytes([]byte(`{"a":[10,{"b/c":true}]}`)))
			want := []struct {
				kind TokenKind
				path string
			}{
				{TokenBeginObject, "/"},
				{TokenKey, "/a"},
				{TokenBeginArray, "/a"},
				{TokenNumber, "/a/0"},
				{TokenBeginObject, "/a/1"},
				{TokenKey, "/a/1/b~1c"},
				{TokenBool, "/a/1/b~1c"},
				{TokenEndObject, "/a/1"},
				{TokenEndArray, "/a"},
				{TokenEndObject, "/"},
			}
			for i, w := range want {
				tok, err := r.NextToken()
				require.NoError(t, err, "token %d", i)
				assert.Equal(t, w.kind, tok.Kind, "token %d", i)
				assert.Equal(t, w.path, r.Path(), "token %d", i)
			}
			_, err := r.NextToken()
			assert.True(t, errors.Is(err, io.EOF))
		})
	}
}

func TestReader_PeekDoesNotAdvancePath(t *testing.T) {
	r := NewReader(JSONBytes([]byte(`[1,2]`)))
	require.NoError(t, r.BeginArray())
	tok, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, TokenNumber, tok.Kind)
	assert.Equal(t, "/", r.Path())

	more, err := r.HasNext()
	require.NoError(t, err)
	assert.True(t, more)

	_, err = r.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "/0", r.Path())
}

func TestReader_VirtualIndexSegments(t *testing.T) {
	r := NewReader(JSONBytes([]byte(`{"k":[[1]]}`)))
	_, err := r.NextToken()
	require.NoError(t, err)
	_, err = r.NextToken()
	require.NoError(t, err)
	_, err = r.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, "/k", r.Path())

	r.enterIndex(0)
	r.enterIndex(0)
	assert.Equal(t, "/k/0/0", r.Path())
	r.leaveIndex()
	assert.Equal(t, "/k/0", r.Path())
	r.leaveIndex()
	r.leaveIndex()
	assert.Equal(t, "/k", r.Path())
}

func TestReader_ReadValueNumberModes(t *testing.T) {
	r := NewReader(JSONBytes([]byte(`[1.5,{"n":2}]`)))
	v, err := r.ReadValue()
	require.NoError(t, err)
	arr := v.([]any)
	assert.Equal(t, json.Number("1.5"), arr[0])

	r = NewReader(JSONBytes([]byte(`[1.5,{"n":2}]`)), ReadOpt{NumberMode: NumberFloat64})
	v, err = r.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, map[string]any{"n": 2.0}}, v)
}

func TestReader_EnforcementLimits(t *testing.T) {
	r := NewReader(JSONBytes([]byte(`[[[1]]]`)), ReadOpt{MaxDepth: 2})
	_, err := r.ReadValue()
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, CodeParseError, iss[0].Code)

	r = NewReader(StdlibJSONDriver().NewBytes([]byte(`["aaaaaaaa","bbbbbbbb","cccccccc"]`)), ReadOpt{MaxBytes: 12})
	_, err = r.ReadValue()
	iss, ok = AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, CodeTruncated, iss[0].Code)
}

func TestReader_DuplicateKeys(t *testing.T) {
	in := []byte(`{"a":1,"a":2}`)

	r := NewReader(JSONBytes(in), ReadOpt{OnDuplicateKey: Error})
	_, err := r.ReadValue()
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/a", iss[0].Path)

	r = NewReader(JSONBytes(in), ReadOpt{OnDuplicateKey: Warn})
	v, err := r.ReadValue()
	require.NoError(t, err)
	assert.Len(t, v.(map[string]any), 1)
	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, CodeDuplicateKey, r.Warnings()[0].Code)

	r = NewReader(JSONBytes(in))
	_, err = r.ReadValue()
	require.NoError(t, err)
	assert.Empty(t, r.Warnings())
}

func TestReader_SharedLog(t *testing.T) {
	log := NewMismatchLog()
	r := NewReader(JSONBytes([]byte(`[]`)), ReadOpt{Log: log})
	assert.Same(t, log, r.MismatchLog())

	r = NewReader(JSONBytes([]byte(`[]`)))
	require.NotNil(t, r.MismatchLog())
	assert.True(t, r.MismatchLog().Empty())
}

func TestReader_ExpectMismatch(t *testing.T) {
	r := NewReader(JSONBytes([]byte(`{}`)))
	err := r.BeginArray()
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidType, iss[0].Code)

	// the offending token is still available
	tok, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, TokenBeginObject, tok.Kind)
}
