package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultProjectConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.IterationsForChecking())

	cfg.Checking.MaxIterations = 7
	assert.Equal(t, 7, cfg.IterationsForChecking())
}

func TestWriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"project.json", "project.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := GetDefaultProjectConfig()
			cfg.Exploration.MaxIterations = 12
			cfg.Exploration.Strategy = "dfs"
			cfg.Exploration.Seed = map[string]int64{"x": -4}
			cfg.Cache.Enabled = true
			cfg.Cache.Backend = "bolt"

			path := filepath.Join(dir, name)
			require.NoError(t, cfg.WriteToFile(path))
			got, err := ReadProjectConfigFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	require.NoError(t, os.WriteFile(path, []byte("exploration:\n  maxIterations: 3\n"), 0644))

	cfg, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Exploration.MaxIterations)
	assert.Equal(t, "bfs", cfg.Exploration.Strategy)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestReadErrors(t *testing.T) {
	_, err := ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectConfig)
	}{
		{"negative iterations", func(c *ProjectConfig) { c.Exploration.MaxIterations = -1 }},
		{"negative checking iterations", func(c *ProjectConfig) { c.Checking.MaxIterations = -1 }},
		{"unknown strategy", func(c *ProjectConfig) { c.Exploration.Strategy = "random" }},
		{"unknown solver", func(c *ProjectConfig) { c.Solver.Backend = "cvc5" }},
		{"unknown cache", func(c *ProjectConfig) { c.Cache.Enabled = true; c.Cache.Backend = "memcached" }},
		{"bolt without path", func(c *ProjectConfig) { c.Cache.Enabled = true; c.Cache.Backend = "bolt"; c.Cache.Path = "" }},
		{"redis without address", func(c *ProjectConfig) { c.Cache.Enabled = true; c.Cache.Backend = "redis"; c.Cache.RedisAddress = "" }},
		{"empty lru", func(c *ProjectConfig) { c.Cache.Enabled = true; c.Cache.LRUSize = 0 }},
		{"bad log level", func(c *ProjectConfig) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultProjectConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
