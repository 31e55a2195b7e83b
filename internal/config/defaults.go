package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is looked up under the project path when --config is not set
	DefaultConfigFile = "sctest.yaml"
	// DefaultEnvFile is loaded from the project path if present
	DefaultEnvFile = ".env"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultScalarisURL is the node used when neither config nor env set one
	DefaultScalarisURL = "http://localhost:8000"
	// DefaultScalarisTimeout bounds a single JSON-RPC call
	DefaultScalarisTimeout = 10 * time.Second
	// DefaultNotifyTimeout bounds the wait for a pub/sub notification
	DefaultNotifyTimeout = 5 * time.Second
	// DefaultVerbosity prints one line per test
	DefaultVerbosity = 2
	// DefaultLogLevel keeps stderr quiet unless something goes wrong
	DefaultLogLevel = "warn"

	// EnvPrefix prefixes every sctest environment variable
	EnvPrefix = "SCTEST_"
	// EnvScalarisURL is the node URL variable shared with other Scalaris clients
	EnvScalarisURL = "SCALARIS_JSON_URL"
)
