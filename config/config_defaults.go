package config

// DefaultConfigFile is the project file looked up in the working directory.
const DefaultConfigFile = "goconcolic.yaml"

// GetDefaultProjectConfig obtains a default configuration for a project.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Exploration: ExplorationConfig{
			MaxIterations: 100,
			Strategy:      "bfs",
			Seed:          map[string]int64{},
		},
		Checking: CheckingConfig{
			MaxIterations: 0,
			StopOnFirst:   false,
		},
		Solver: SolverConfig{
			Backend: "z3",
		},
		Cache: CacheConfig{
			Enabled:      false,
			Backend:      "memory",
			Path:         "queries.db",
			RedisAddress: "localhost:6379",
			LRUSize:      4096,
			TTL:          0,
		},
		Corpus: CorpusConfig{
			Directory: "",
		},
		Logging: LoggingConfig{
			Level:        "info",
			NoColor:      false,
			LogDirectory: "",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
		Server: ServerConfig{
			Address: ":8080",
		},
	}
}
