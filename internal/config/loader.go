package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load builds the configuration for one command.
//
// Precedence (highest to lowest):
//  1. Command-line flags
//  2. SCTEST_* environment variables (SCTEST_SCALARIS_URL -> scalaris.url)
//  3. SCALARIS_JSON_URL
//  4. YAML config file (--config, or sctest.yaml under the project path)
//  5. Defaults
//
// A .env file under the project path is loaded into the environment first;
// variables already set in the process win over it.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	if err := loadDotEnv(filepath.Join(cfg.ProjectPath, DefaultEnvFile)); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	path, explicit := cfg.GetConfigPath()
	content, err := readConfigFile(path, explicit)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvScalarisURL, ".", func(s string) string {
		if s != EnvScalarisURL {
			return ""
		}
		return "scalaris.url"
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", EnvScalarisURL, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps SCTEST_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// readConfigFile returns nil content when an implicit default file is absent.
func readConfigFile(path string, explicit bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s too large: %d bytes (max %d)", path, info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
