// FILE: jsonsieve/src/internal/config/config.go
package config

// Config is the complete jsonsieve configuration
type Config struct {
	Extract ExtractConfig  `toml:"extract"`
	Filters []FilterConfig `toml:"filters"`
	Output  OutputConfig   `toml:"output"`
	Server  ServerConfig   `toml:"server"`
	Logging *LogConfig     `toml:"logging"`
}

type ExtractConfig struct {
	// Extraction mode: "generic" or "moli"
	Mode string `toml:"mode"`

	// Hand fragments the heuristics cannot fix to the deep repair pass
	DeepRepair bool `toml:"deep_repair"`

	// Largest accepted input document in bytes
	MaxInputBytes int64 `toml:"max_input_bytes"`
}

type OutputConfig struct {
	// Output format: "json", "fragments", "csv", "txt", "raw"
	Format string `toml:"format"`

	// Indent JSON output
	Pretty bool `toml:"pretty"`

	// Spaces per indent level when pretty
	Indent int64 `toml:"indent"`

	// Colorize txt output
	Color bool `toml:"color"`

	// Output file path, "-" for stdout
	Target string `toml:"target"`
}

const (
	ModeGeneric = "generic"
	ModeMoli    = "moli"
)

const defaultMaxInputBytes = 10 * 1024 * 1024

func defaults() *Config {
	return &Config{
		Extract: ExtractConfig{
			Mode:          ModeGeneric,
			MaxInputBytes: defaultMaxInputBytes,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
			Indent: 2,
			Target: "-",
		},
		Server: ServerConfig{
			HTTP: HTTPConfig{
				Host:           "0.0.0.0",
				Port:           8080,
				ProcessPath:    "/process",
				HealthPath:     "/health",
				MaxBodyBytes:   defaultMaxInputBytes,
				ReadTimeoutMs:  5000,
				WriteTimeoutMs: 10000,
			},
			TCP: TCPConfig{
				Host:         "0.0.0.0",
				Port:         9090,
				MaxLineBytes: 1024 * 1024,
			},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				BurstSize:         20,
				CleanupIntervalS:  60,
				ResponseCode:      429,
				ResponseMessage:   "Rate limit exceeded",
			},
			Auth: AuthConfig{
				Type:  AuthTypeNone,
				Realm: "jsonsieve",
			},
		},
		Logging: DefaultLogConfig(),
	}
}

// Defaults returns a fresh copy of the built-in configuration
func Defaults() *Config {
	return defaults()
}
