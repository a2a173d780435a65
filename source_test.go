package lenient_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/lenient"
)

const driverDoc = `{"s":"v","k":{"inner":["x",{"y":"z"}]},"n":-1.5e3,"b":false,"z":null,"e":[]}`

func drain(t *testing.T, src lenient.Source) []lenient.Token {
	t.Helper()
	var out []lenient.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		tok.Offset = 0
		out = append(out, tok)
	}
}

func TestDrivers_ProduceSameTokens(t *testing.T) {
	std := drain(t, lenient.StdlibJSONDriver().NewBytes([]byte(driverDoc)))
	gj := drain(t, lenient.GoJSONDriver().NewReader(strings.NewReader(driverDoc)))
	assert.Equal(t, std, gj)

	var keys []string
	for _, tok := range std {
		if tok.Kind == lenient.TokenKey {
			keys = append(keys, tok.String)
		}
	}
	assert.Equal(t, []string{"s", "k", "inner", "y", "n", "b", "z", "e"}, keys)
}

func TestDrivers_SwitchGlobal(t *testing.T) {
	t.Cleanup(lenient.UseDefaultJSONDriver)
	assert.Equal(t, "go-json", lenient.CurrentJSONDriver().Name())

	lenient.SetJSONDriver(lenient.StdlibJSONDriver())
	assert.Equal(t, "encoding/json", lenient.CurrentJSONDriver().Name())

	lenient.SetJSONDriver(nil)
	assert.Equal(t, "encoding/json", lenient.CurrentJSONDriver().Name())

	got, log, err := lenient.Unmarshal[lenient.LenientList[string]]([]byte(`["a",1]`))
	require.NoError(t, err)
	assert.Equal(t, lenient.LenientList[string]{"a"}, got)
	assert.Len(t, log.RemovedElements(), 1)
}

func TestUnmarshalReader_TrailingData(t *testing.T) {
	got, _, err := lenient.UnmarshalReader[lenient.List[int]](strings.NewReader(" [1,2] \n"))
	require.NoError(t, err)
	assert.Equal(t, lenient.List[int]{1, 2}, got)

	_, _, err = lenient.UnmarshalReader[lenient.List[int]](strings.NewReader(`[1,2] [3]`), lenient.DecodeOpt{Driver: lenient.StdlibJSONDriver()})
	iss, ok := lenient.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, lenient.CodeParseError, iss[0].Code)
}
