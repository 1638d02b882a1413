// FILE: jsonsieve/src/cmd/jsonsieve/commands/config.go
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"jsonsieve/src/internal/config"
)

// ConfigCommand writes a starter configuration and reports the resolved path
type ConfigCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (c *ConfigCommand) Execute(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.errOut, c.Help())
		return fmt.Errorf("missing config subcommand")
	}

	switch args[0] {
	case "init":
		return c.init(args[1:])
	case "path":
		fmt.Fprintln(c.output, config.GetConfigPath())
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s", args[0])
	}
}

func (c *ConfigCommand) init(args []string) error {
	cmd := flag.NewFlagSet("config init", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var (
		path  = cmd.String("o", config.GetConfigPath(), "Destination file")
		force = cmd.Bool("force", false, "Overwrite an existing file")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*path); err == nil {
		if !*force {
			return fmt.Errorf("%s already exists (use -force to overwrite)", *path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", *path, err)
	}

	if dir := filepath.Dir(*path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := config.Defaults().SaveToFile(*path); err != nil {
		return err
	}

	fmt.Fprintf(c.output, "Wrote default configuration to %s\n", *path)
	return nil
}

func (c *ConfigCommand) Description() string {
	return "Write a default config file or show the config path"
}

func (c *ConfigCommand) Help() string {
	return `Config Command - Manage the jsonsieve configuration file

Usage:
  jsonsieve config init [-o path] [-force]
  jsonsieve config path

Subcommands:
  init    Write the built-in defaults as TOML
  path    Print the config file path jsonsieve reads

Options:
  -o <path>    Destination file (default: resolved config path)
  -force       Overwrite an existing file

The path honors JSONSIEVE_CONFIG_FILE and JSONSIEVE_CONFIG_DIR.
`
}
