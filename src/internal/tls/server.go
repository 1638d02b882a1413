// FILE: jsonsieve/src/internal/tls/server.go
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"jsonsieve/src/internal/config"

	"github.com/lixenwraith/log"
)

// ServerManager builds the TLS configuration of the HTTPS listener
type ServerManager struct {
	config    *config.TLSConfig
	tlsConfig *tls.Config
	logger    *log.Logger
}

var tlsVersions = map[string]uint16{
	"TLS1.2": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13,
}

var cipherSuites = map[string]uint16{
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":         tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":         tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384":       tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256":       tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}

// Used when no cipher_suites are configured
var defaultCipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

// NewServerManager loads the certificate pair. It returns nil when TLS is off.
func NewServerManager(cfg *config.TLSConfig, logger *log.Logger) (*ServerManager, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   versionOr(cfg.MinVersion, tls.VersionTLS12),
		MaxVersion:   versionOr(cfg.MaxVersion, tls.VersionTLS13),
		CipherSuites: defaultCipherSuites,
	}

	if cfg.CipherSuites != "" {
		suites, err := parseCipherSuites(cfg.CipherSuites)
		if err != nil {
			return nil, err
		}
		tlsConfig.CipherSuites = suites
	}

	if cfg.ClientAuth {
		pool, err := loadCertPool(cfg.ClientCAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	logger.Info("msg", "TLS configured",
		"component", "tls",
		"cert_file", cfg.CertFile,
		"min_version", versionName(tlsConfig.MinVersion),
		"client_auth", cfg.ClientAuth)

	return &ServerManager{
		config:    cfg,
		tlsConfig: tlsConfig,
		logger:    logger,
	}, nil
}

// GetHTTPConfig returns a copy suitable for the HTTP listener
func (m *ServerManager) GetHTTPConfig() *tls.Config {
	if m == nil {
		return nil
	}
	cfg := m.tlsConfig.Clone()
	cfg.NextProtos = []string{"http/1.1"}
	return cfg
}

func (m *ServerManager) CertFile() string { return m.config.CertFile }
func (m *ServerManager) KeyFile() string  { return m.config.KeyFile }

func (m *ServerManager) GetStats() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":       true,
		"min_version":   versionName(m.tlsConfig.MinVersion),
		"max_version":   versionName(m.tlsConfig.MaxVersion),
		"client_auth":   m.config.ClientAuth,
		"cipher_suites": len(m.tlsConfig.CipherSuites),
	}
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse client CA certificate")
	}
	return pool, nil
}

func versionOr(name string, fallback uint16) uint16 {
	if v, ok := tlsVersions[strings.ToUpper(name)]; ok {
		return v
	}
	return fallback
}

func versionName(version uint16) string {
	for name, v := range tlsVersions {
		if v == version {
			return name
		}
	}
	return fmt.Sprintf("0x%04x", version)
}

// parseCipherSuites rejects unknown names instead of silently dropping them
func parseCipherSuites(list string) ([]uint16, error) {
	var suites []uint16
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := cipherSuites[name]
		if !ok {
			return nil, fmt.Errorf("unknown cipher suite: %s", name)
		}
		suites = append(suites, id)
	}
	return suites, nil
}
