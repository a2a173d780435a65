package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/lenient"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "gojson", cfg.Decode.Driver)
	assert.Equal(t, lenient.ReadOpt{}, cfg.Decode.ReadOpt())
	assert.Equal(t, "go-json", cfg.Decode.JSONDriver().Name())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lenient.yaml")
	require.NoError(t, os.WriteFile(file, []byte("output: yaml\ndecode:\n  max_depth: 8\n  duplicate_keys: warn\n  driver: stdlib\n"), 0o600))
	t.Setenv("LENIENT_DECODE_MAX_DEPTH", "3")
	t.Setenv("LENIENT_DECODE_NUMBER_MODE", "float64")

	cfg, err := Load(dir, file)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, 3, cfg.Decode.MaxDepth)
	assert.Equal(t, lenient.ReadOpt{NumberMode: lenient.NumberFloat64, OnDuplicateKey: lenient.Warn, MaxDepth: 3}, cfg.Decode.ReadOpt())
	assert.Equal(t, "encoding/json", cfg.Decode.JSONDriver().Name())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LENIENT_DECODE_MAX_BYTES=1024\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LENIENT_DECODE_MAX_BYTES") })

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.Decode.MaxBytes)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LENIENT_OUTPUT", "xml")
	_, err := Load(t.TempDir(), "")
	assert.ErrorContains(t, err, "output")

	_, err = Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
