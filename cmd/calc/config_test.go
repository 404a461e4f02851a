package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	src := `base: 2
timeout: 1500ms
limits:
  max_depth: 10
  max_ops: 1000
  max_factorial: 20
  max_bits: 64
  precision: 12
  approx_pow: true
vars:
  rate: 0.075
  big: 1 << 40
funcs:
  hyp(a, b): sqrt(a a + b b)
`
	cfg, err := parseConfig(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Base)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 10, cfg.Limits.MaxDepth)
	assert.Equal(t, int64(1000), cfg.Limits.MaxOps)
	assert.Equal(t, int64(20), cfg.Limits.MaxFactorial)
	assert.Equal(t, 64, cfg.Limits.MaxBits)
	assert.Equal(t, int32(12), cfg.Limits.Precision)
	assert.True(t, cfg.Limits.ApproxPow)
	assert.Equal(t, map[string]string{"rate": "0.075", "big": "1 << 40"}, cfg.Vars)
	assert.Equal(t, []string{"big", "rate"}, sortedKeys(cfg.Vars))
	assert.Equal(t, map[string]string{"hyp(a, b)": "sqrt(a a + b b)"}, cfg.Funcs)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, cfg.Base)
	assert.Empty(t, cfg.Vars)
}

func TestParseConfigUnknownField(t *testing.T) {
	_, err := parseConfig(strings.NewReader("precision: 10\n"))
	assert.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	cfg, err := readConfig("")
	require.NoError(t, err)
	assert.Zero(t, cfg.Base)

	_, err = readConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base: [\n"), 0o644))
	_, err = readConfig(path)
	assert.ErrorContains(t, err, path)
}
