package lenient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/lenient"
)

type status int

const (
	statusUnknown status = iota
	statusActive
	statusRetired
)

func statusRegistry(withFallback bool) *lenient.Registry {
	e := lenient.Enum(map[string]status{"active": statusActive, "retired": statusRetired})
	if withFallback {
		e = e.WithFallback(statusUnknown)
	}
	reg := lenient.NewRegistry()
	lenient.RegisterType[status](reg, e)
	return reg
}

func TestEnum_FallbackRecordsUnknown(t *testing.T) {
	got, log, err := lenient.Unmarshal[lenient.List[status]]([]byte(`["active","paused","retired"]`), opt(statusRegistry(true)))
	require.NoError(t, err)
	assert.Equal(t, lenient.List[status]{statusActive, statusUnknown, statusRetired}, got)

	unknown := log.UnknownEnums()
	require.Len(t, unknown, 1)
	assert.Equal(t, lenient.UnknownEnum{Path: "/1", Name: "paused"}, unknown[0])
	assert.Nil(t, log.RemovedElements())
}

func TestEnum_FallbackInsideTolerantList(t *testing.T) {
	got, log, err := lenient.Unmarshal[lenient.LenientList[status]]([]byte(`["paused",3,"active"]`), opt(statusRegistry(true)))
	require.NoError(t, err)
	assert.Equal(t, lenient.LenientList[status]{statusUnknown, statusActive}, got)

	require.Len(t, log.UnknownEnums(), 1)
	assert.Equal(t, "/0", log.UnknownEnums()[0].Path)
	require.Len(t, log.RemovedElements(), 1)
	assert.Equal(t, "/1", log.RemovedElements()[0].Path)
}

func TestEnum_WithoutFallback(t *testing.T) {
	_, _, err := lenient.Unmarshal[status]([]byte(`"paused"`), opt(statusRegistry(false)))
	iss, ok := lenient.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, lenient.CodeInvalidEnum, iss[0].Code)
	assert.Equal(t, "/", iss[0].Path)
	assert.Contains(t, iss[0].Hint, `"paused"`)
}

func TestEnum_WithFallbackLeavesOriginalStrict(t *testing.T) {
	base := lenient.StringEnum(letterA, letterB)
	_ = base.WithFallback(letterA)

	_, _, err := lenient.Unmarshal[letter]([]byte(`"Z"`), opt(registryWith[letter](base)))
	assert.Error(t, err)
}

func TestEnum_Write(t *testing.T) {
	reg := statusRegistry(true)
	out, err := lenient.Marshal(lenient.List[status]{statusRetired, statusActive}, lenient.EncodeOpt{Registry: reg})
	require.NoError(t, err)
	assert.Equal(t, `["retired","active"]`, string(out))

	_, err = lenient.Marshal(statusUnknown, lenient.EncodeOpt{Registry: reg})
	iss, ok := lenient.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, lenient.CodeInvalidEnum, iss[0].Code)
}

func TestEnum_Label(t *testing.T) {
	assert.Equal(t, "enum[lenient_test.status]", lenient.Enum(map[string]status{}).String())
}

func registryWith[T any](a lenient.Adapter) *lenient.Registry {
	reg := lenient.NewRegistry()
	lenient.RegisterType[T](reg, a)
	return reg
}
