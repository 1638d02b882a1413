// FILE: jsonsieve/src/cmd/jsonsieve/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"jsonsieve/src/cmd/jsonsieve/commands"
	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	if handled {
		os.Exit(exitOK)
	}

	flagCfg, err := ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(exitOK)
	}

	if flagCfg.ConfigFile != "" {
		if _, err := os.Stat(flagCfg.ConfigFile); err != nil {
			FatalError(exitConfigAbsent, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		os.Setenv("JSONSIEVE_CONFIG_FILE", flagCfg.ConfigFile)
	}

	cfg, err := config.Load(flagCfg.Apply)
	if err != nil {
		FatalError(exitError, "Failed to load config: %v\n", err)
	}

	if err := initializeLogger(cfg); err != nil {
		FatalError(exitError, "Failed to initialize logger: %v\n", err)
	}

	logger.Info("msg", "jsonsieve starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"mode", cfg.Extract.Mode,
		"log_output", cfg.Logging.Output)

	var code int
	if cfg.Server.AnyEnabled() {
		if len(flagCfg.Paths) > 0 {
			logger.Warn("msg", "Input files are ignored while serving",
				"files", len(flagCfg.Paths))
		}
		code = runServers(cfg)
	} else {
		code = runPipeline(cfg, flagCfg.Paths)
	}

	shutdownLogger()
	os.Exit(code)
}
