// FILE: jsonsieve/src/internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// Validate checks the whole configuration and fills zero-valued limits
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateExtract(&cfg.Extract); err != nil {
		return fmt.Errorf("extract config: %w", err)
	}

	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}

	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if cfg.Logging == nil {
		cfg.Logging = DefaultLogConfig()
	}
	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	cfg.Mode = strings.ToLower(cfg.Mode)
	switch cfg.Mode {
	case ModeGeneric, ModeMoli:
	case "":
		cfg.Mode = ModeGeneric
	default:
		return fmt.Errorf("invalid mode '%s' (must be 'generic' or 'moli')", cfg.Mode)
	}

	if cfg.MaxInputBytes < 0 {
		return fmt.Errorf("max_input_bytes cannot be negative")
	} else if cfg.MaxInputBytes == 0 {
		cfg.MaxInputBytes = defaultMaxInputBytes
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	validFormats := map[string]bool{
		"json": true, "fragments": true, "csv": true, "txt": true, "raw": true,
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("invalid format: %s", cfg.Format)
	}

	if cfg.Indent < 0 || cfg.Indent > 8 {
		return fmt.Errorf("indent must be between 0 and 8: %d", cfg.Indent)
	}

	if err := lconfig.NonEmpty(cfg.Target); err != nil {
		return fmt.Errorf("target: %w", err)
	}

	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.HTTP.Enabled {
		if err := validateListener("http", cfg.HTTP.Host, cfg.HTTP.Port); err != nil {
			return err
		}

		for name, path := range map[string]string{
			"process_path": cfg.HTTP.ProcessPath,
			"health_path":  cfg.HTTP.HealthPath,
		} {
			if !strings.HasPrefix(path, "/") {
				return fmt.Errorf("http %s must start with /: %q", name, path)
			}
		}
		if cfg.HTTP.ProcessPath == cfg.HTTP.HealthPath {
			return fmt.Errorf("http process_path and health_path must differ")
		}

		if cfg.HTTP.MaxBodyBytes <= 0 {
			cfg.HTTP.MaxBodyBytes = defaultMaxInputBytes
		}
		if cfg.HTTP.ReadTimeoutMs <= 0 {
			cfg.HTTP.ReadTimeoutMs = 5000
		}
		if cfg.HTTP.WriteTimeoutMs <= 0 {
			cfg.HTTP.WriteTimeoutMs = 10000
		}
		if err := validateTLS(cfg.HTTP.TLS); err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}

	if cfg.TCP.Enabled {
		if err := validateListener("tcp", cfg.TCP.Host, cfg.TCP.Port); err != nil {
			return err
		}
		if cfg.TCP.MaxLineBytes <= 0 {
			cfg.TCP.MaxLineBytes = 1024 * 1024
		}
	}

	if cfg.HTTP.Enabled && cfg.TCP.Enabled && cfg.HTTP.Port == cfg.TCP.Port {
		return fmt.Errorf("http and tcp listeners share port %d", cfg.HTTP.Port)
	}

	if err := validateRateLimit(&cfg.RateLimit); err != nil {
		return err
	}

	return validateAuth(&cfg.Auth)
}

func validateListener(name, host string, port int64) error {
	if err := lconfig.Port(port); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if host != "" && host != "0.0.0.0" {
		if err := lconfig.IPAddress(host); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}
