// FILE: jsonsieve/src/internal/config/logging.go
package config

import (
	"fmt"
	"slices"
)

// LogConfig controls jsonsieve's own diagnostics, never the extracted data
type LogConfig struct {
	// Output mode: "file", "stdout", "stderr", "both", "none"
	Output string `toml:"output"`

	// Log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// File output settings (when Output is "file" or "both")
	File *LogFileConfig `toml:"file"`

	// Console output settings
	Console *LogConsoleConfig `toml:"console"`
}

type LogFileConfig struct {
	// Directory for log files
	Directory string `toml:"directory"`

	// Base name for log files
	Name string `toml:"name"`

	// Maximum size per log file in MB
	MaxSizeMB int64 `toml:"max_size_mb"`

	// Maximum total size of all logs in MB
	MaxTotalSizeMB int64 `toml:"max_total_size_mb"`

	// Log retention in hours (0 = disabled)
	RetentionHours float64 `toml:"retention_hours"`
}

type LogConsoleConfig struct {
	// Target for console output: "stdout", "stderr", "split"
	// "split": info/debug to stdout, warn/error to stderr
	Target string `toml:"target"`

	// Format: "txt" or "json"
	Format string `toml:"format"`
}

var (
	logOutputs     = []string{"file", "stdout", "stderr", "both", "none"}
	logLevels      = []string{"debug", "info", "warn", "error"}
	consoleTargets = []string{"stdout", "stderr", "split"}
	consoleFormats = []string{"", "txt", "json"}
)

// DefaultLogConfig keeps stdout free for extracted data
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output: "stderr",
		Level:  "warn",
		File: &LogFileConfig{
			Directory:      "./log",
			Name:           "jsonsieve",
			MaxSizeMB:      100,
			MaxTotalSizeMB: 1000,
			RetentionHours: 168, // 7 days
		},
		Console: &LogConsoleConfig{
			Target: "stderr",
			Format: "txt",
		},
	}
}

// writesFile reports whether the output mode needs the file settings
func (c *LogConfig) writesFile() bool {
	return c.Output == "file" || c.Output == "both"
}

func validateLogConfig(cfg *LogConfig) error {
	if !slices.Contains(logOutputs, cfg.Output) {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}
	if !slices.Contains(logLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	if cfg.writesFile() {
		if cfg.File == nil {
			cfg.File = DefaultLogConfig().File
		}
		if cfg.File.Directory == "" || cfg.File.Name == "" {
			return fmt.Errorf("log file directory and name are required for output %q", cfg.Output)
		}
		if cfg.File.MaxSizeMB < 0 || cfg.File.MaxTotalSizeMB < 0 || cfg.File.RetentionHours < 0 {
			return fmt.Errorf("log file limits cannot be negative")
		}
	}

	if cfg.Console != nil {
		if !slices.Contains(consoleTargets, cfg.Console.Target) {
			return fmt.Errorf("invalid console target: %s", cfg.Console.Target)
		}
		if !slices.Contains(consoleFormats, cfg.Console.Format) {
			return fmt.Errorf("invalid console format: %s", cfg.Console.Format)
		}
	}

	return nil
}
