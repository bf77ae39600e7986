// Package config holds the project configuration shared by the CLI, the HTTP
// server and the MCP server.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	// Exploration describes how inputs are generated from the reference implementation.
	Exploration ExplorationConfig `json:"exploration" yaml:"exploration"`

	// Checking describes how the candidate implementation is compared against the reference.
	Checking CheckingConfig `json:"checking" yaml:"checking"`

	// Solver selects the SMT backend.
	Solver SolverConfig `json:"solver" yaml:"solver"`

	// Cache describes the solver query cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Corpus describes where exploration results and check reports are persisted.
	Corpus CorpusConfig `json:"corpus" yaml:"corpus"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics describes the prometheus endpoint.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Server describes the HTTP server.
	Server ServerConfig `json:"server" yaml:"server"`
}

// ExplorationConfig describes the configuration options used by concolic.Explorer.
type ExplorationConfig struct {
	// MaxIterations is the maximum number of executions of the target. Zero means no limit.
	MaxIterations int `json:"maxIterations" yaml:"maxIterations"`

	// Strategy is the order in which pending constraints are solved: "bfs" or "dfs".
	Strategy string `json:"strategy" yaml:"strategy"`

	// Seed gives the concrete values of the first execution. Parameters not listed start at zero.
	Seed map[string]int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// CheckingConfig describes the configuration options used by concolic.Checker.
type CheckingConfig struct {
	// MaxIterations caps the exploration of the reference that produces the inputs to check.
	// Zero falls back to Exploration.MaxIterations.
	MaxIterations int `json:"maxIterations" yaml:"maxIterations"`

	// StopOnFirst ends a check at the first finding instead of going through every input.
	StopOnFirst bool `json:"stopOnFirst" yaml:"stopOnFirst"`
}

type SolverConfig struct {
	// Backend names the solver. Only "z3" is supported.
	Backend string `json:"backend" yaml:"backend"`
}

// CacheConfig describes the solver query cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Backend is the persistent store: "memory", "bolt" or "redis".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the bolt database file.
	Path string `json:"path" yaml:"path"`

	RedisAddress  string `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword string `json:"redisPassword,omitempty" yaml:"redisPassword,omitempty"`
	RedisDB       int    `json:"redisDB" yaml:"redisDB"`

	// LRUSize is the number of answers kept in memory in front of the store.
	LRUSize int `json:"lruSize" yaml:"lruSize"`

	// TTL is the lifetime in seconds of a redis entry. Zero keeps entries forever.
	TTL int `json:"ttl" yaml:"ttl"`
}

type CorpusConfig struct {
	// Directory holds the persisted results. If empty, nothing is persisted.
	Directory string `json:"directory" yaml:"directory"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// NoColor disables colors on the console.
	NoColor bool `json:"noColor" yaml:"noColor"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty,
	// then no log files are kept
	LogDirectory string `json:"logDirectory" yaml:"logDirectory"`
}

type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Address is where the standalone metrics endpoint listens when no HTTP server runs.
	Address string `json:"address" yaml:"address"`
}

type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadProjectConfigFromFile reads a ProjectConfig from a provided file path. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON. Fields missing from the file keep their default value.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration
	projectConfig := GetDefaultProjectConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(b, projectConfig)
	} else {
		err = json.Unmarshal(b, projectConfig)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path, in YAML or JSON depending on the extension.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	var (
		b   []byte
		err error
	)
	if isYAML(path) {
		b, err = yaml.Marshal(p)
	} else {
		b, err = json.MarshalIndent(p, "", "\t")
	}
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
func (p *ProjectConfig) Validate() error {
	if p.Exploration.MaxIterations < 0 {
		return errors.Errorf("exploration iteration limit cannot be negative")
	}
	if p.Checking.MaxIterations < 0 {
		return errors.Errorf("checking iteration limit cannot be negative")
	}
	if _, err := concolic.ParseStrategy(p.Exploration.Strategy); err != nil {
		return errors.WithStack(err)
	}

	switch strings.ToLower(p.Solver.Backend) {
	case "", "z3":
	default:
		return errors.Errorf("unsupported solver backend %q", p.Solver.Backend)
	}

	if p.Cache.Enabled {
		switch p.Cache.Backend {
		case "memory":
		case "bolt":
			if p.Cache.Path == "" {
				return errors.Errorf("the bolt cache needs a database path")
			}
		case "redis":
			if p.Cache.RedisAddress == "" {
				return errors.Errorf("the redis cache needs an address")
			}
		default:
			return errors.Errorf("unknown cache backend %q", p.Cache.Backend)
		}
		if p.Cache.LRUSize <= 0 {
			return errors.Errorf("cache LRU size must be a positive number")
		}
		if p.Cache.TTL < 0 {
			return errors.Errorf("cache TTL cannot be negative")
		}
	}

	if _, err := logging.ParseLevel(p.Logging.Level); err != nil {
		return err
	}
	return nil
}

// IterationsForChecking is the exploration cap used when generating inputs for a check.
func (p *ProjectConfig) IterationsForChecking() int {
	if p.Checking.MaxIterations > 0 {
		return p.Checking.MaxIterations
	}
	return p.Exploration.MaxIterations
}
