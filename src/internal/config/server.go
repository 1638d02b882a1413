// FILE: jsonsieve/src/internal/config/server.go
package config

type ServerConfig struct {
	HTTP      HTTPConfig      `toml:"http"`
	TCP       TCPConfig       `toml:"tcp"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Auth      AuthConfig      `toml:"auth"`
}

type HTTPConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int64  `toml:"port"`

	// Endpoint paths
	ProcessPath string `toml:"process_path"`
	HealthPath  string `toml:"health_path"`

	MaxBodyBytes   int64 `toml:"max_body_bytes"`
	ReadTimeoutMs  int64 `toml:"read_timeout_ms"`
	WriteTimeoutMs int64 `toml:"write_timeout_ms"`

	// Serve HTTPS when enabled
	TLS *TLSConfig `toml:"tls"`
}

type TCPConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int64  `toml:"port"`

	// Longest accepted input line; longer lines close the connection
	MaxLineBytes int64 `toml:"max_line_bytes"`
}

// AnyEnabled reports whether a network listener is configured
func (s ServerConfig) AnyEnabled() bool {
	return s.HTTP.Enabled || s.TCP.Enabled
}
