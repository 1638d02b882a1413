// FILE: jsonsieve/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "JSONSIEVE_"

// Load builds the configuration from defaults, the config file and the
// environment, applies overrides in order, then validates the result.
// A missing config file is not an error.
func Load(overrides ...func(*Config)) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	if finalConfig.Logging == nil {
		finalConfig.Logging = DefaultLogConfig()
	}

	for _, apply := range overrides {
		apply(finalConfig)
	}

	return finalConfig, Validate(finalConfig)
}

// LoadDotEnv exports variables from an env file without overriding the
// process environment. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

func GetConfigPath() string {
	if configFile := os.Getenv("JSONSIEVE_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("JSONSIEVE_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("JSONSIEVE_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "jsonsieve.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "jsonsieve.toml")
	}

	return "jsonsieve.toml"
}
