package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/finder"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FINDER_LOG_LEVEL", "FINDER_LOG_FORMAT", "FINDER_STRICT_PATHS", "FINDER_DB"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Compiler.StrictPaths)
	assert.Empty(t, cfg.Compiler.Strategies)
	assert.Empty(t, cfg.Store.Path)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"strategy", func(c *Config) { c.Compiler.Strategies = []string{"find", "purge"} }, "compiler.strategies"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "finder.yaml", `
log:
  level: debug
compiler:
  strict_paths: true
  strategies: [find, count]
store:
  path: plans.db
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
	assert.True(t, cfg.Compiler.StrictPaths)
	assert.Equal(t, []string{"find", "count"}, cfg.Compiler.Strategies)
	assert.Equal(t, "plans.db", cfg.Store.Path)
}

func TestLoadFromFile_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "finder.yaml", "")
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile_UnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "finder.yaml", "compiler:\n  strict: true\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_DiscoversFileInDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, "log:\n  format: json\n")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "log:\n  level: error\ncompiler:\n  strict_paths: true\n")

	t.Setenv("FINDER_LOG_LEVEL", "debug")
	t.Setenv("FINDER_STRICT_PATHS", "false")
	t.Setenv("FINDER_DB", "/tmp/archive.db")

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Compiler.StrictPaths)
	assert.Equal(t, "/tmp/archive.db", cfg.Store.Path)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINDER_STRICT_PATHS", "maybe")
	_, err := Load("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINDER_LOG_FORMAT", "xml")
	_, err := Load("", t.TempDir())
	require.Error(t, err)
}

func TestLoadEnv_Unset(t *testing.T) {
	clearEnv(t)
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Nil(t, env.StrictPaths)
	assert.Empty(t, env.LogLevel)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Log:      LogConfig{Format: "json"},
		Compiler: CompilerConfig{StrictPaths: true, Strategies: []string{"find"}},
	})
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Compiler.StrictPaths)
	assert.Equal(t, []string{"find"}, cfg.Compiler.Strategies)

	cfg.Merge(nil)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestCompilerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compiler.Strategies = []string{finder.StrategyFind}
	opts, err := cfg.CompilerOptions()
	require.NoError(t, err)

	c := finder.New(opts...)
	require.Len(t, c.Strategies(), 1)
	assert.Equal(t, finder.StrategyFind, c.Strategies()[0].Name)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := DefaultConfig()
	cfg.Store.Path = "x.db"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
