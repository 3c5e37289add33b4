package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "input_files/lookup_table.csv", cfg.LookupTable)
	assert.Equal(t, "input_files/flow_logs.txt", cfg.FlowLogs)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "file", cfg.Transport)
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
lookup_table: /data/lookup.csv
log_level: debug
`), 0644))

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/lookup.csv", cfg.LookupTable)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched keys keep their defaults
	assert.Equal(t, "input_files/flow_logs.txt", cfg.FlowLogs)
}

func TestResolveEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("lookup_table: /data/lookup.csv\n"), 0644))

	t.Setenv("FLOWPARSER_LOOKUP_TABLE", "/env/lookup.csv")
	t.Setenv("FLOWPARSER_FORMAT", "json")

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/lookup.csv", cfg.LookupTable)
	assert.Equal(t, "json", cfg.Format)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestResolveNoFile(t *testing.T) {
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().LookupTable, cfg.LookupTable)
}
