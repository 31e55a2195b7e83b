package cli

import "sctest/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:     f.ConfigFile,
		ProjectPath:    f.ProjectPath,
		ScalarisURL:    f.ScalarisURL,
		NameFilter:     f.NameFilter,
		FailFast:       f.FailFast,
		Verbosity:      f.Verbosity,
		VerbositySet:   f.VerbositySet,
		LogLevel:       f.LogLevel,
		CallbackListen: f.CallbackListen,
		MetricsFile:    f.MetricsFile,
		HistoryDSN:     f.HistoryDSN,
		TestCases:      f.TestCases,
		OpenFaills:     f.OpenFaills,
	}
}
