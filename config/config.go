// Package config resolves run configuration from defaults, an optional YAML
// file, environment variables, and command-line flags, in that order of
// precedence (lowest first).
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FLOWPARSER_"

// ProtocolNumbersFile is the protocol reference path. It is intentionally
// not configurable.
const ProtocolNumbersFile = "input_files/protocol_numbers.csv"

// Config holds every tunable of a run.
type Config struct {
	LookupTable string `yaml:"lookup_table" env:"LOOKUP_TABLE"`
	FlowLogs    string `yaml:"flow_logs" env:"FLOW_LOGS"`

	Format    string `yaml:"format" env:"FORMAT"`
	Transport string `yaml:"transport" env:"TRANSPORT"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile  string `yaml:"log_file" env:"LOG_FILE"`

	MetricsPush string `yaml:"metrics_push" env:"METRICS_PUSH"`
}

// Defaults returns the fixed relative locations used when nothing else is
// configured.
func Defaults() Config {
	return Config{
		LookupTable: "input_files/lookup_table.csv",
		FlowLogs:    "input_files/flow_logs.txt",
		Format:      "csv",
		Transport:   "file",
		LogLevel:    "info",
		LogFile:     "program_log.txt",
	}
}

// Resolve builds the configuration: defaults, then the YAML file when path
// is non-empty, then environment variables. Flags are applied afterwards by
// the caller, which knows which ones were set explicitly.
func Resolve(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.loadFromEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	if err := env.ParseWithOptions(c, env.Options{
		Prefix: envPrefix,
	}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}
