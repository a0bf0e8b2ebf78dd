// Package config defines the immutable swebatch configuration and its
// loading pipeline: built-in defaults, an optional YAML config file,
// SWEBATCH_* environment variables, then CLI arguments, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lycfight/swebatch/internal/logging"
)

// Built-in defaults for the batch runner.
const (
	// DefaultBaseDir is the directory scanned for dataset files.
	DefaultBaseDir = "data/tasks"

	// DefaultRunID tags harness invocations when no label is supplied.
	DefaultRunID = "0329"

	// DefaultMaxWorkers is forwarded to the harness as --max_workers.
	DefaultMaxWorkers = 16

	// DefaultTimeoutSeconds is forwarded to the harness as --timeout.
	DefaultTimeoutSeconds = 1200

	// DefaultPattern is the dataset file suffix matched during discovery.
	DefaultPattern = ".jsonl"

	// DefaultMinVersion is the oldest harness version swebatch accepts.
	DefaultMinVersion = "2.0.0"
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvBaseDir    = "SWEBATCH_BASE_DIR"
	EnvRunID      = "SWEBATCH_RUN_ID"
	EnvMaxWorkers = "SWEBATCH_MAX_WORKERS"
	EnvTimeout    = "SWEBATCH_TIMEOUT"
	EnvLogLevel   = "SWEBATCH_LOG_LEVEL"
)

// Common configuration errors.
var (
	ErrInvalidMaxWorkers = errors.New("max workers must be a positive integer")
	ErrInvalidTimeout    = errors.New("timeout must be a positive integer")
	ErrEmptyRunID        = errors.New("run identifier must not be empty")
	ErrEmptyPattern      = errors.New("dataset file pattern must not be empty")
)

// Config is the full swebatch configuration. It is constructed once at
// process start and treated as read-only afterwards.
type Config struct {
	Runner  RunnerConfig  `yaml:"runner"`
	Harness HarnessConfig `yaml:"harness"`
	Logging LoggingConfig `yaml:"logging"`
}

// RunnerConfig holds the batch-loop settings forwarded to the harness.
type RunnerConfig struct {
	// BaseDir is the directory scanned (non-recursively) for dataset files.
	BaseDir string `yaml:"base_dir"`

	// RunID labels every harness invocation of this batch.
	RunID string `yaml:"run_id"`

	// MaxWorkers is forwarded verbatim; the harness owns its parallelism.
	MaxWorkers int `yaml:"max_workers"`

	// TimeoutSeconds is forwarded verbatim; the harness enforces it.
	TimeoutSeconds int `yaml:"timeout"`

	// Pattern is the dataset file suffix matched during discovery.
	Pattern string `yaml:"pattern"`

	// HaltOnError stops the batch at the first failed invocation
	// instead of continuing and aggregating failures at the end.
	HaltOnError bool `yaml:"halt_on_error"`
}

// HarnessConfig describes the external validation command.
type HarnessConfig struct {
	// Command is the argv prefix of the validation harness.
	Command []string `yaml:"command"`

	// VersionProbe is the argv that prints the installed harness version.
	VersionProbe []string `yaml:"version_probe"`

	// MinVersion is the minimum acceptable harness version.
	MinVersion string `yaml:"min_version"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ToLoggingConfig bridges the configuration section to the
// internal/logging package.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}

// New returns a Config populated with built-in defaults.
func New() *Config {
	return &Config{
		Runner: RunnerConfig{
			BaseDir:        DefaultBaseDir,
			RunID:          DefaultRunID,
			MaxWorkers:     DefaultMaxWorkers,
			TimeoutSeconds: DefaultTimeoutSeconds,
			Pattern:        DefaultPattern,
		},
		Harness: HarnessConfig{
			Command:      []string{"python", "-m", "swebench.harness.run_validation"},
			VersionProbe: []string{"python", "-c", "import swebench; print(swebench.__version__)"},
			MinVersion:   DefaultMinVersion,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the user-level config file location,
// ~/.swebatch/config.yaml, or "" when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".swebatch", "config.yaml")
}

// ApplyEnv overlays SWEBATCH_* environment variables onto the config.
// lookupEnv is injected so tests can supply their own environment.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvBaseDir); ok && v != "" {
		c.Runner.BaseDir = v
	}
	if v, ok := lookupEnv(EnvRunID); ok && v != "" {
		c.Runner.RunID = v
	}
	if v, ok := lookupEnv(EnvMaxWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidMaxWorkers, EnvMaxWorkers, v)
		}
		c.Runner.MaxWorkers = n
	}
	if v, ok := lookupEnv(EnvTimeout); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidTimeout, EnvTimeout, v)
		}
		c.Runner.TimeoutSeconds = n
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the invariants the runner relies on. Everything else
// is forwarded verbatim; range checking is the harness's job.
func (c *Config) Validate() error {
	if c.Runner.RunID == "" {
		return ErrEmptyRunID
	}
	if c.Runner.Pattern == "" {
		return ErrEmptyPattern
	}
	if c.Runner.MaxWorkers <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxWorkers, c.Runner.MaxWorkers)
	}
	if c.Runner.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTimeout, c.Runner.TimeoutSeconds)
	}
	return nil
}
