package logging

// LEFT_ARROW is the glyph printed in place of the "info" level name
const LEFT_ARROW = "⇾"

// SERVICE_KEY is the key every sub-logger is tagged with
const SERVICE_KEY = "service"

// These constants are used to identify the various services that may do some logging
const (
	// EXPLORER_SERVICE identifies the exploration scheduler
	EXPLORER_SERVICE = "explorer"
	// CHECKER_SERVICE identifies the equivalence checker
	CHECKER_SERVICE = "checker"
	// ORACLE_SERVICE identifies the SMT oracle
	ORACLE_SERVICE = "oracle"
	// CACHE_SERVICE identifies the query cache
	CACHE_SERVICE = "cache"
	// CLI_SERVICE identifies the cmd package
	CLI_SERVICE = "cli"
	// API_SERVICE identifies the HTTP server
	API_SERVICE = "api"
	// MCP_SERVICE identifies the MCP tool server
	MCP_SERVICE = "mcp"
)
