package lenient_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reoring/lenient"
)

// countingSource records how many tokens were pulled.
type countingSource struct {
	lenient.Source
	n int
}

func (c *countingSource) NextToken() (lenient.Token, error) {
	c.n++
	return c.Source.NextToken()
}

func TestRegistry_NoAdapterFailsBeforeReading(t *testing.T) {
	src := &countingSource{Source: lenient.JSONBytes([]byte(`[1,2]`))}
	r := lenient.NewReader(src)

	_, err := lenient.Decode[lenient.List[chan int]](lenient.NewRegistry(), r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lenient.ErrNoAdapter))
	assert.Zero(t, src.n)

	_, log, err := lenient.Unmarshal[lenient.LenientList[func()]]([]byte(`[1]`))
	assert.True(t, errors.Is(err, lenient.ErrNoAdapter))
	assert.Nil(t, log)
}

func TestRegistry_ExplicitBeatsFactories(t *testing.T) {
	reg := lenient.NewRegistry()
	upper := lenient.ScalarAdapter("upper", func(r *lenient.Reader, v any) (string, error) {
		s, _ := v.(string)
		return s + "!", nil
	}, nil)

	before, _, err := lenient.Unmarshal[lenient.List[string]]([]byte(`["a"]`), opt(reg))
	require.NoError(t, err)
	assert.Equal(t, lenient.List[string]{"a"}, before)

	lenient.RegisterType[string](reg, upper)
	got, _, err := lenient.Unmarshal[lenient.List[string]]([]byte(`["a"]`), opt(reg))
	require.NoError(t, err)
	assert.Equal(t, lenient.List[string]{"a!"}, got, "registration invalidates cached collection adapters")
}

func TestRegistry_UserFactoryRunsBeforeBuiltins(t *testing.T) {
	calls := 0
	f := lenient.FactoryFunc(func(t reflect.Type, reg *lenient.Registry) (lenient.Adapter, error) {
		calls++
		if t != reflect.TypeFor[int]() {
			return nil, nil
		}
		return lenient.ScalarAdapter("int-as-zero", func(*lenient.Reader, any) (int, error) { return 0, nil }, nil), nil
	})
	reg := lenient.NewRegistry(lenient.WithFactory(f))

	got, _, err := lenient.Unmarshal[lenient.List[int]]([]byte(`[5,"x"]`), opt(reg))
	require.NoError(t, err)
	assert.Equal(t, lenient.List[int]{0, 0}, got)
	assert.Positive(t, calls)

	a1, err := lenient.AdapterFor[lenient.List[int]](reg)
	require.NoError(t, err)
	n := calls
	a2, err := lenient.AdapterFor[lenient.List[int]](reg)
	require.NoError(t, err)
	assert.Equal(t, n, calls, "second lookup is cached")
	assert.Equal(t, a1.String(), a2.String())
}

func TestRegistry_FactoryErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	reg := lenient.NewRegistry()
	reg.AddFactory(lenient.FactoryFunc(func(t reflect.Type, _ *lenient.Registry) (lenient.Adapter, error) {
		if t == reflect.TypeFor[bool]() {
			return nil, boom
		}
		return nil, nil
	}))
	_, err := lenient.AdapterFor[lenient.LenientList[bool]](reg)
	assert.True(t, errors.Is(err, boom))
}

func TestRegistry_ConcurrentResolution(t *testing.T) {
	reg := lenient.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := lenient.Unmarshal[lenient.LenientList[int]]([]byte(`[1,"x",2]`), opt(reg))
			assert.NoError(t, err)
			assert.Equal(t, lenient.LenientList[int]{1, 2}, got)
		}()
	}
	wg.Wait()
}

func TestRegistry_LoggerSeesDroppedElements(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := lenient.NewRegistry(lenient.WithLogger(zap.New(core)))

	_, _, err := lenient.Unmarshal[lenient.LenientList[int]]([]byte(`[1,"x"]`), opt(reg))
	require.NoError(t, err)

	entries := logs.FilterMessage("dropped collection element").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/1", entries[0].ContextMap()["path"])
}

func TestRegistry_AdapterShapes(t *testing.T) {
	a, err := lenient.AdapterFor[lenient.LenientSet[string]](lenient.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "string.collection().nullSafe()", a.String())

	a, err = lenient.AdapterFor[*int](lenient.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "*int.nullSafe()", a.String())
}

type tree []tree

type nested []*nested

func TestRegistry_SelfReferentialTypes(t *testing.T) {
	got, _, err := lenient.Unmarshal[tree]([]byte(`[[],[[]]]`))
	require.NoError(t, err)
	assert.Equal(t, tree{{}, {{}}}, got)

	out, err := lenient.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[[],[[]]]`, string(out))

	n, _, err := lenient.Unmarshal[nested]([]byte(`[[],[[]]]`))
	require.NoError(t, err)
	assert.Equal(t, nested{&nested{}, &nested{&nested{}}}, n)

	a, err := lenient.AdapterFor[tree](lenient.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "lenient_test.tree.collection().nullSafe()", a.String())
}

func TestRegistry_SelfReferentialConcurrent(t *testing.T) {
	reg := lenient.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := lenient.Unmarshal[nested]([]byte(`[[[]]]`), opt(reg))
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()
}
