// FILE: jsonsieve/src/internal/config/tls.go
package config

import (
	"fmt"
	"os"
)

// TLSConfig enables HTTPS on the HTTP listener
type TLSConfig struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`

	// Require client certificates signed by ClientCAFile
	ClientAuth   bool   `toml:"client_auth"`
	ClientCAFile string `toml:"client_ca_file"`

	// TLS version constraints: "TLS1.2", "TLS1.3"
	MinVersion string `toml:"min_version"`
	MaxVersion string `toml:"max_version"`

	// Comma separated cipher suite names; empty uses secure defaults
	CipherSuites string `toml:"cipher_suites"`
}

var validTLSVersions = map[string]bool{
	"":       true,
	"TLS1.2": true,
	"TLS1.3": true,
}

func validateTLS(cfg *TLSConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return fmt.Errorf("tls enabled but cert_file/key_file not specified")
	}
	for _, f := range []string{cfg.CertFile, cfg.KeyFile} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file not accessible: %w", err)
		}
	}

	if cfg.ClientAuth && cfg.ClientCAFile == "" {
		return fmt.Errorf("tls client_auth requires client_ca_file")
	}

	if !validTLSVersions[cfg.MinVersion] {
		return fmt.Errorf("invalid tls min_version: %s", cfg.MinVersion)
	}
	if !validTLSVersions[cfg.MaxVersion] {
		return fmt.Errorf("invalid tls max_version: %s", cfg.MaxVersion)
	}
	if cfg.MinVersion == "TLS1.3" && cfg.MaxVersion == "TLS1.2" {
		return fmt.Errorf("tls min_version above max_version")
	}

	return nil
}
