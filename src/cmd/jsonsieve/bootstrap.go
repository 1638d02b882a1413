// FILE: jsonsieve/src/cmd/jsonsieve/bootstrap.go
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/format"
	"jsonsieve/src/internal/server"
	"jsonsieve/src/internal/service"
	"jsonsieve/src/internal/source"
	"jsonsieve/src/internal/version"

	"github.com/lixenwraith/log"
)

// Process exit codes
const (
	exitOK           = 0
	exitError        = 1
	exitConfigAbsent = 2
	exitNoFragments  = 3
)

// bootstrapPipeline wires the one-shot pipeline from configuration.
// Files are written only after a successful run, so the returned buffer
// is nil when output goes to stdout.
func bootstrapPipeline(cfg *config.Config, paths []string, stdout io.Writer) (*service.Pipeline, *bytes.Buffer, error) {
	src, err := newSource(cfg, paths)
	if err != nil {
		return nil, nil, err
	}

	proc, err := service.NewProcessor(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create processor: %w", err)
	}

	formatter, err := format.New(cfg.Output, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	var (
		out    = stdout
		buffer *bytes.Buffer
	)
	if target := cfg.Output.Target; target != "" && target != "-" {
		buffer = &bytes.Buffer{}
		out = buffer
	}

	pipeline, err := service.NewPipeline(src, proc, formatter, out, logger)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, buffer, nil
}

func newSource(cfg *config.Config, paths []string) (source.Source, error) {
	if len(paths) == 0 || (len(paths) == 1 && paths[0] == "-") {
		return source.NewStdinSource(cfg.Extract.MaxInputBytes, logger), nil
	}
	return source.NewFileSource(paths, cfg.Extract.MaxInputBytes, logger)
}

// runPipeline performs one-shot extraction and returns the exit code
func runPipeline(cfg *config.Config, paths []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sh := NewSignalHandler(nil, logger)
	defer sh.Stop()
	go func() {
		if sig := sh.Handle(ctx); sig != nil {
			logger.Info("msg", "Interrupted", "signal", sig)
			cancel()
		}
	}()

	pipeline, buffer, err := bootstrapPipeline(cfg, paths, os.Stdout)
	if err != nil {
		Error("Error: %v\n", err)
		return exitError
	}

	result, err := pipeline.Run(ctx)
	switch {
	case errors.Is(err, service.ErrNoFragments):
		Error("%v\n", err)
		return exitNoFragments
	case errors.Is(err, source.ErrInteractiveStdin):
		Error("Error: %v\n", err)
		customUsage(os.Stderr)
		return exitError
	case err != nil:
		Error("Error: %v\n", err)
		return exitError
	}

	if buffer != nil {
		if err := os.WriteFile(cfg.Output.Target, buffer.Bytes(), 0o644); err != nil {
			Error("Error: failed to write %s: %v\n", cfg.Output.Target, err)
			return exitError
		}
		Error("Found %d JSON objects (%d valid, %d invalid), wrote %d to %s\n",
			result.Fragments, result.Valid, result.Invalid, result.Written, cfg.Output.Target)
	}

	return exitOK
}

// runServers serves extraction until a termination signal
func runServers(cfg *config.Config) int {
	proc, err := service.NewProcessor(cfg, logger)
	if err != nil {
		logger.Error("msg", "Failed to create processor", "error", err)
		Error("Error: %v\n", err)
		return exitError
	}

	mgr, err := server.NewManager(cfg.Server, proc, logger)
	if err != nil {
		logger.Error("msg", "Failed to create servers", "error", err)
		Error("Error: %v\n", err)
		return exitError
	}

	if err := mgr.Start(); err != nil {
		logger.Error("msg", "Failed to start servers", "error", err)
		Error("Error: %v\n", err)
		mgr.Stop()
		return exitError
	}

	logger.Info("msg", "jsonsieve serving",
		"version", version.Short(),
		"mode", proc.Mode())
	displayEndpoints(cfg.Server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if enableStatusReporter() {
		go statusReporter(ctx, mgr, proc)
	}

	sh := NewSignalHandler(func() { reportStatus(mgr, proc) }, logger)
	defer sh.Stop()

	sig := sh.Handle(ctx)
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...",
		"signal", sig)
	cancel()

	done := make(chan struct{})
	go func() {
		mgr.Stop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
		return exitOK
	case <-time.After(10 * time.Second):
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		return exitError
	}
}

// initializeLogger sets up the logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	var configArgs []string

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true")
		configureFileLogging(&configArgs, cfg)
		configureConsoleTarget(&configArgs, cfg)

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Console != nil && cfg.Logging.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Console.Format))
	}

	return logger.InitWithDefaults(configArgs...)
}

func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	if cfg.Logging.File == nil {
		return
	}

	*configArgs = append(*configArgs,
		fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
		fmt.Sprintf("name=%s", cfg.Logging.File.Name),
		fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))

	if cfg.Logging.File.RetentionHours > 0 {
		*configArgs = append(*configArgs,
			fmt.Sprintf("retention_period_hrs=%.1f", cfg.Logging.File.RetentionHours))
	}
}

func configureConsoleTarget(configArgs *[]string, cfg *config.Config) {
	target := "stderr"
	if cfg.Logging.Console != nil && cfg.Logging.Console.Target != "" {
		target = cfg.Logging.Console.Target
	}

	if target == "split" {
		*configArgs = append(*configArgs, "stdout_split_mode=true")
		*configArgs = append(*configArgs, "stdout_target=split")
	} else {
		*configArgs = append(*configArgs, fmt.Sprintf("stdout_target=%s", target))
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
