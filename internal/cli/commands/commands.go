package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sctest/internal/cli"
	"sctest/internal/config"
	"sctest/internal/logging"
	"sctest/internal/scalaris"
	"sctest/internal/storage"
	"sctest/internal/suite"
	"sctest/internal/suites"
)

// ErrTestsFailed is returned by run when the run was not successful. The
// report already explains why, so main exits 1 without printing it.
var ErrTestsFailed = errors.New("tests failed")

// Env holds the dependencies every command needs. It is built once flags
// are parsed, since flags take part in configuration.
type Env struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *suite.Registry
	Storage  *storage.JSONStorage
	Stdout   io.Writer
	Stderr   io.Writer
}

// NewEnv loads configuration and registers the suites.
func NewEnv(flags config.Flags, stdout, stderr io.Writer) (*Env, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Pretty = cfg.Log.Pretty
	logCfg.Output = stderr
	logger := logging.New(logCfg)

	reg := suite.NewRegistry()
	if err := suites.Register(reg, suites.Config{
		Scalaris: scalaris.Config{
			URL:     cfg.Scalaris.URL,
			Timeout: cfg.Scalaris.Timeout,
		},
		CallbackListen: cfg.Callback.Listen,
		CallbackHost:   cfg.Callback.Host,
		NotifyTimeout:  cfg.Callback.NotifyTimeout,
		KeyPrefix:      cfg.Run.KeyPrefix,
		Logger:         logging.NewWithComponent(logCfg, "scalaris"),
	}); err != nil {
		return nil, err
	}

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Storage:  storage.NewJSONStorage(cfg.GetOutputPath()),
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// Commands holds all CLI commands
type Commands struct {
	env    *Env
	stdout io.Writer
	stderr io.Writer

	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand
}

// NewCommands creates all commands. Output goes to stdout/stderr, or the
// process streams when nil.
func NewCommands(stdout, stderr io.Writer) *Commands {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	c := &Commands{stdout: stdout, stderr: stderr}
	c.Run = NewRunCommand(c.Env)
	c.List = NewListCommand(c.Env)
	c.Faills = NewFaillsCommand(c.Env)
	return c
}

// Env returns the environment built by the last setup.
func (c *Commands) Env() *Env {
	return c.env
}

func (c *Commands) setup(cmd *cobra.Command, flags *cli.Flags) error {
	flags.VerbositySet = cmd.Flags().Changed("verbosity")
	env, err := NewEnv(flags.ToConfigFlags(), c.stdout, c.stderr)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	c.env = env
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.SetOut(c.stdout)
	rootCmd.SetErr(c.stderr)

	// Shared by every command
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "YAML config file (default: sctest.yaml under the project path)")
	pf.StringVar(&flags.ProjectPath, "project-path", "", "Directory holding .env, sctest.yaml and the storage directory")
	pf.StringVarP(&flags.ScalarisURL, "url", "u", "", "Scalaris JSON-RPC URL (overrides SCALARIS_JSON_URL)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.setup(cmd, flags)
	}

	// A bare invocation runs the default suites, the same as "run".
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = c.Run.Execute
	bindRunFlags(rootCmd, flags)

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [identifier...]",
		Short: "Run the Scalaris client test suites",
		Long: `Run the registered test suites against a Scalaris node, in order.

Identifiers have the form Module.Class or Module.Class.method. Without
arguments the configured list (or every suite) runs. The exit status is 0
when every test passed and 1 otherwise.`,
		RunE: c.Run.Execute,
	}
	bindRunFlags(runCmd, flags)
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered test suites",
		Long:  "List the registered suite identifiers without running them",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'testWrite*' or '*PubSub*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test methods under each suite")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)
}

func bindRunFlags(cmd *cobra.Command, flags *cli.Flags) {
	fs := cmd.Flags()
	fs.StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'testWrite*' or '*PubSub*')")
	fs.BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure or error")
	fs.IntVarP(&flags.Verbosity, "verbosity", "v", config.DefaultVerbosity, "0: summary only, 1: progress bar, 2: one line per test")
	fs.StringVar(&flags.CallbackListen, "callback-listen", "", "Address for the pub/sub notification endpoint (enables the delivery test)")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	fs.StringVar(&flags.HistoryDSN, "history-dsn", "", "Record the run in this MySQL database")
	fs.BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
}
