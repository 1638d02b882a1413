// FILE: jsonsieve/src/cmd/jsonsieve/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"jsonsieve/src/internal/config"

	"github.com/lixenwraith/log"
)

// FlagConfig holds the parsed command line
type FlagConfig struct {
	// General
	ConfigFile  string
	ShowVersion bool
	Quiet       bool

	// Extraction
	Mode       string
	DeepRepair bool

	// Output
	Format  string
	Compact bool
	Indent  int
	Color   bool
	Output  string

	// Filtering
	Include   []string
	Exclude   []string
	ValidOnly bool
	LogTypes  string

	// Servers
	Serve    bool
	HTTPPort int
	TCPPort  int

	// Logging
	LogOutput  string
	LogLevel   string
	LogFile    string
	LogDir     string
	LogConsole string

	// Input files or glob patterns; empty reads stdin
	Paths []string

	set map[string]bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(args []string) (*FlagConfig, error) {
	return parseFlags(args, os.Stderr)
}

func parseFlags(args []string, errOut io.Writer) (*FlagConfig, error) {
	f := &FlagConfig{set: make(map[string]bool)}

	fs := flag.NewFlagSet("jsonsieve", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { customUsage(errOut) }

	fs.StringVar(&f.ConfigFile, "config", "", "Config file path")
	fs.StringVar(&f.ConfigFile, "c", "", "Config file path")
	fs.BoolVar(&f.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&f.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&f.Quiet, "quiet", false, "Suppress console messages and logs")
	fs.BoolVar(&f.Quiet, "q", false, "Suppress console messages and logs")

	fs.StringVar(&f.Mode, "mode", "", "Extraction mode: generic, moli")
	fs.StringVar(&f.Mode, "m", "", "Extraction mode: generic, moli")
	fs.BoolVar(&f.DeepRepair, "deep-repair", false, "Run the deep repair pass on fragments the heuristics cannot fix")

	fs.StringVar(&f.Format, "format", "", "Output format: json, fragments, csv, txt, raw")
	fs.StringVar(&f.Format, "f", "", "Output format: json, fragments, csv, txt, raw")
	fs.BoolVar(&f.Compact, "compact", false, "Compact JSON output")
	fs.IntVar(&f.Indent, "indent", 0, "Spaces per indent level")
	fs.BoolVar(&f.Color, "color", false, "Colorize txt output")
	fs.StringVar(&f.Output, "output", "", "Output file, - for stdout")
	fs.StringVar(&f.Output, "o", "", "Output file, - for stdout")

	fs.Func("include", "Keep fragments matching regex (repeatable)", func(s string) error {
		f.Include = append(f.Include, s)
		return nil
	})
	fs.Func("exclude", "Drop fragments matching regex (repeatable)", func(s string) error {
		f.Exclude = append(f.Exclude, s)
		return nil
	})
	fs.BoolVar(&f.ValidOnly, "valid-only", false, "Drop fragments that could not be recovered")
	fs.StringVar(&f.LogTypes, "log-types", "", "Comma separated MOLI log types to keep: request, response, unknown")

	fs.BoolVar(&f.Serve, "serve", false, "Run the network servers instead of one-shot processing")
	fs.IntVar(&f.HTTPPort, "http-port", 0, "Enable the HTTP server on this port")
	fs.IntVar(&f.TCPPort, "tcp-port", 0, "Enable the TCP server on this port")

	fs.StringVar(&f.LogOutput, "log-output", "", "Log output: file, stdout, stderr, both, none (overrides config)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file name (when using file output)")
	fs.StringVar(&f.LogDir, "log-dir", "", "Log directory (when using file output)")
	fs.StringVar(&f.LogConsole, "log-console", "", "Console target: stdout, stderr, split (overrides config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		f.set[canonicalFlag(fl.Name)] = true
	})
	f.Paths = fs.Args()

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// canonicalFlag maps short aliases to their long names
func canonicalFlag(name string) string {
	switch name {
	case "c":
		return "config"
	case "v":
		return "version"
	case "q":
		return "quiet"
	case "m":
		return "mode"
	case "f":
		return "format"
	case "o":
		return "output"
	}
	return name
}

func (f *FlagConfig) validate() error {
	if f.Mode != "" {
		switch f.Mode {
		case config.ModeGeneric, config.ModeMoli:
		default:
			return fmt.Errorf("invalid mode: %s (valid: generic, moli)", f.Mode)
		}
	}

	if f.Format != "" {
		switch f.Format {
		case "json", "fragments", "csv", "txt", "raw":
		default:
			return fmt.Errorf("invalid format: %s (valid: json, fragments, csv, txt, raw)", f.Format)
		}
	}

	if f.set["indent"] && (f.Indent < 0 || f.Indent > 16) {
		return fmt.Errorf("invalid indent: %d (valid: 0-16)", f.Indent)
	}

	for _, p := range []int{f.HTTPPort, f.TCPPort} {
		if p < 0 || p > 65535 {
			return fmt.Errorf("invalid port: %d", p)
		}
	}

	if f.LogOutput != "" {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[f.LogOutput] {
			return fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", f.LogOutput)
		}
	}

	if f.LogLevel != "" {
		if _, err := parseLogLevel(f.LogLevel); err != nil {
			return fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", f.LogLevel)
		}
	}

	if f.LogConsole != "" {
		validTargets := map[string]bool{
			"stdout": true, "stderr": true, "split": true,
		}
		if !validTargets[f.LogConsole] {
			return fmt.Errorf("invalid log-console: %s (valid: stdout, stderr, split)", f.LogConsole)
		}
	}

	return nil
}

// Apply writes flag values over the loaded configuration.
// Only flags given on the command line take effect.
func (f *FlagConfig) Apply(cfg *config.Config) {
	if f.Mode != "" {
		cfg.Extract.Mode = f.Mode
	}
	if f.set["deep-repair"] {
		cfg.Extract.DeepRepair = f.DeepRepair
	}

	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.set["compact"] {
		cfg.Output.Pretty = !f.Compact
	}
	if f.set["indent"] {
		cfg.Output.Indent = int64(f.Indent)
	}
	if f.set["color"] {
		cfg.Output.Color = f.Color
	}
	if f.Output != "" {
		cfg.Output.Target = f.Output
	}

	if len(f.Include) > 0 {
		cfg.Filters = append(cfg.Filters, config.FilterConfig{
			Type:     config.FilterTypeInclude,
			Logic:    config.FilterLogicOr,
			Patterns: f.Include,
		})
	}
	if len(f.Exclude) > 0 {
		cfg.Filters = append(cfg.Filters, config.FilterConfig{
			Type:     config.FilterTypeExclude,
			Logic:    config.FilterLogicOr,
			Patterns: f.Exclude,
		})
	}
	if f.ValidOnly || f.LogTypes != "" {
		cfg.Filters = append(cfg.Filters, config.FilterConfig{
			Type:      config.FilterTypeInclude,
			Logic:     config.FilterLogicOr,
			ValidOnly: f.ValidOnly,
			LogTypes:  splitList(f.LogTypes),
		})
	}

	if f.HTTPPort > 0 {
		cfg.Server.HTTP.Enabled = true
		cfg.Server.HTTP.Port = int64(f.HTTPPort)
	}
	if f.TCPPort > 0 {
		cfg.Server.TCP.Enabled = true
		cfg.Server.TCP.Port = int64(f.TCPPort)
	}
	if f.Serve && !cfg.Server.AnyEnabled() {
		cfg.Server.HTTP.Enabled = true
	}

	if cfg.Logging == nil {
		cfg.Logging = config.DefaultLogConfig()
	}
	if f.LogOutput != "" {
		cfg.Logging.Output = f.LogOutput
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFile != "" || f.LogDir != "" {
		if cfg.Logging.File == nil {
			cfg.Logging.File = config.DefaultLogConfig().File
		}
		if f.LogFile != "" {
			cfg.Logging.File.Name = f.LogFile
		}
		if f.LogDir != "" {
			cfg.Logging.File.Directory = f.LogDir
		}
	}
	if f.LogConsole != "" {
		if cfg.Logging.Console == nil {
			cfg.Logging.Console = config.DefaultLogConfig().Console
		}
		cfg.Logging.Console.Target = f.LogConsole
	}

	// Quiet silences the logger as well
	if f.Quiet {
		cfg.Logging.Output = "none"
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

func customUsage(w io.Writer) {
	fmt.Fprintf(w, "jsonsieve - extract and repair JSON embedded in log text\n\n")
	fmt.Fprintf(w, "Usage: jsonsieve [options] [file|glob ...]\n")
	fmt.Fprintf(w, "       jsonsieve <command> [options]\n\n")

	fmt.Fprintf(w, "General:\n")
	fmt.Fprintf(w, "  -c, -config string\n\tConfig file path\n")
	fmt.Fprintf(w, "  -v, -version\n\tShow version information\n")
	fmt.Fprintf(w, "  -q, -quiet\n\tSuppress console messages and logs\n")

	fmt.Fprintf(w, "\nExtraction:\n")
	fmt.Fprintf(w, "  -m, -mode string\n\tExtraction mode: generic, moli\n")
	fmt.Fprintf(w, "  -deep-repair\n\tRun the deep repair pass on fragments the heuristics cannot fix\n")

	fmt.Fprintf(w, "\nOutput:\n")
	fmt.Fprintf(w, "  -f, -format string\n\tOutput format: json, fragments, csv, txt, raw\n")
	fmt.Fprintf(w, "  -compact\n\tCompact JSON output\n")
	fmt.Fprintf(w, "  -indent int\n\tSpaces per indent level\n")
	fmt.Fprintf(w, "  -color\n\tColorize txt output\n")
	fmt.Fprintf(w, "  -o, -output string\n\tOutput file, - for stdout\n")

	fmt.Fprintf(w, "\nFiltering:\n")
	fmt.Fprintf(w, "  -include regex\n\tKeep fragments matching regex (repeatable)\n")
	fmt.Fprintf(w, "  -exclude regex\n\tDrop fragments matching regex (repeatable)\n")
	fmt.Fprintf(w, "  -valid-only\n\tDrop fragments that could not be recovered\n")
	fmt.Fprintf(w, "  -log-types string\n\tComma separated MOLI log types to keep\n")

	fmt.Fprintf(w, "\nServers:\n")
	fmt.Fprintf(w, "  -serve\n\tRun the network servers instead of one-shot processing\n")
	fmt.Fprintf(w, "  -http-port int\n\tEnable the HTTP server on this port\n")
	fmt.Fprintf(w, "  -tcp-port int\n\tEnable the TCP server on this port\n")

	fmt.Fprintf(w, "\nLogging:\n")
	fmt.Fprintf(w, "  -log-output string\n\tLog output: file, stdout, stderr, both, none (overrides config)\n")
	fmt.Fprintf(w, "  -log-level string\n\tLog level: debug, info, warn, error (overrides config)\n")
	fmt.Fprintf(w, "  -log-file string\n\tLog file name (when using file output)\n")
	fmt.Fprintf(w, "  -log-dir string\n\tLog directory (when using file output)\n")
	fmt.Fprintf(w, "  -log-console string\n\tConsole target: stdout, stderr, split (overrides config)\n")

	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  # Extract every JSON object from a log dump\n")
	fmt.Fprintf(w, "  jsonsieve app.log\n\n")
	fmt.Fprintf(w, "  # MOLI request/response pairs as CSV\n")
	fmt.Fprintf(w, "  kubectl logs api-0 | jsonsieve -m moli -f csv -o traces.csv\n\n")
	fmt.Fprintf(w, "  # Serve extraction over HTTP and TCP\n")
	fmt.Fprintf(w, "  jsonsieve -http-port 8080 -tcp-port 9090\n\n")

	fmt.Fprintf(w, "Environment Variables:\n")
	fmt.Fprintf(w, "  JSONSIEVE_CONFIG_FILE              Config file path\n")
	fmt.Fprintf(w, "  JSONSIEVE_CONFIG_DIR               Config directory\n")
	fmt.Fprintf(w, "  JSONSIEVE_DISABLE_STATUS_REPORTER  Disable periodic status reports in server mode (set to 1)\n")
}
