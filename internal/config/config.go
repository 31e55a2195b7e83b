package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// ProjectPath is where .env, sctest.yaml and the output directory live.
	// It locates the config file, so it only comes from flags.
	ProjectPath string `koanf:"-"`

	Scalaris ScalarisConfig `koanf:"scalaris"`
	Callback CallbackConfig `koanf:"callback"`
	Run      RunConfig      `koanf:"run"`
	Output   OutputConfig   `koanf:"output"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	History  HistoryConfig  `koanf:"history"`

	// Command flags
	Flags Flags `koanf:"-"`
}

// ScalarisConfig locates the node under test.
type ScalarisConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CallbackConfig enables the pub/sub delivery test. Empty Listen skips it.
type CallbackConfig struct {
	Listen        string        `koanf:"listen"`
	Host          string        `koanf:"host"`
	NotifyTimeout time.Duration `koanf:"notify_timeout"`
}

// RunConfig selects and reports tests.
type RunConfig struct {
	Identifiers []string `koanf:"identifiers"`
	Filter      string   `koanf:"filter"`
	FailFast    bool     `koanf:"fail_fast"`
	Verbosity   int      `koanf:"verbosity"`
	KeyPrefix   string   `koanf:"key_prefix"`
}

// OutputConfig places the results file.
type OutputConfig struct {
	Dir  string `koanf:"dir"`
	File string `koanf:"file"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// MetricsConfig enables the Prometheus textfile. Empty File disables it.
type MetricsConfig struct {
	File string `koanf:"file"`
}

// HistoryConfig enables the MySQL run history. Empty DSN disables it.
type HistoryConfig struct {
	DSN string `koanf:"dsn"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile     string
	ProjectPath    string
	ScalarisURL    string
	NameFilter     string
	FailFast       bool
	Verbosity      int
	VerbositySet   bool
	LogLevel       string
	CallbackListen string
	MetricsFile    string
	HistoryDSN     string
	TestCases      bool
	OpenFaills     bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath: DefaultProjectPath,
		Scalaris: ScalarisConfig{
			URL:     DefaultScalarisURL,
			Timeout: DefaultScalarisTimeout,
		},
		Callback: CallbackConfig{
			NotifyTimeout: DefaultNotifyTimeout,
		},
		Run: RunConfig{
			Verbosity: DefaultVerbosity,
		},
		Output: OutputConfig{
			Dir:  DefaultOutputJSONDir,
			File: DefaultOutputJSONFile,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Pretty: true,
		},
	}
}

// ApplyFlags overrides loaded values with flags that were set.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.ProjectPath != "" {
		c.ProjectPath = flags.ProjectPath
	}
	if flags.ScalarisURL != "" {
		c.Scalaris.URL = flags.ScalarisURL
	}
	if flags.NameFilter != "" {
		c.Run.Filter = flags.NameFilter
	}
	if flags.FailFast {
		c.Run.FailFast = true
	}
	if flags.VerbositySet {
		c.Run.Verbosity = flags.Verbosity
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.CallbackListen != "" {
		c.Callback.Listen = flags.CallbackListen
	}
	if flags.MetricsFile != "" {
		c.Metrics.File = flags.MetricsFile
	}
	if flags.HistoryDSN != "" {
		c.History.DSN = flags.HistoryDSN
	}
}

// Validate rejects values no run can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Scalaris.URL) == "" {
		return fmt.Errorf("scalaris.url must not be empty")
	}
	if c.Scalaris.Timeout <= 0 {
		return fmt.Errorf("scalaris.timeout must be positive, got %s", c.Scalaris.Timeout)
	}
	if c.Run.Verbosity < 0 || c.Run.Verbosity > 2 {
		return fmt.Errorf("run.verbosity must be 0, 1 or 2, got %d", c.Run.Verbosity)
	}
	if c.Output.File == "" {
		return fmt.Errorf("output.file must not be empty")
	}
	return nil
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.Output.Dir, c.Output.File)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetConfigPath returns the YAML file to load and whether it was asked for
// explicitly. A missing explicit file is an error; a missing default is not.
func (c *Config) GetConfigPath() (string, bool) {
	if c.Flags.ConfigFile != "" {
		return c.Flags.ConfigFile, true
	}
	return filepath.Join(c.ProjectPath, DefaultConfigFile), false
}
