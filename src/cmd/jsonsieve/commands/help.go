// FILE: jsonsieve/src/cmd/jsonsieve/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

const generalHelpTemplate = `jsonsieve: extract and repair JSON objects embedded in log text.

Usage:
  jsonsieve [command] [options]
  jsonsieve [options] [file|glob ...]

Commands:
%s

Application Options:
  -c, -config <path>       Path to configuration file (default: ~/.config/jsonsieve.toml)
  -h, --help               Display this help message and exit
  -v, -version             Display version information and exit
  -q, -quiet               Suppress console messages and logs

Processing Options:
  -m, -mode <mode>         Extraction mode: generic, moli
  -f, -format <format>     Output format: json, fragments, csv, txt, raw
  -o, -output <path>       Output file, - for stdout
  -include/-exclude <re>   Filter fragments by regex
  -valid-only              Drop fragments that could not be recovered

Server Options:
  -serve                   Run the configured servers
  -http-port <port>        Serve POST /process over HTTP
  -tcp-port <port>         Serve newline-framed text over TCP

For command-specific help:
  jsonsieve help <command>
  jsonsieve <command> --help

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags override all other settings
  - Environment variables (JSONSIEVE_ prefix) override file settings
  - TOML configuration file is the primary method

Exit Codes:
  0  success
  1  general error
  2  config file not found
  3  no JSON objects found in the input

Examples:
  # Pretty JSON of every object in a log dump
  jsonsieve app.log

  # MOLI fragments from stdin, one record per line
  cat trace.log | jsonsieve -m moli -f fragments -compact

  # Write a starter config
  jsonsieve config init
`

// HelpCommand displays general or command-specific help.
type HelpCommand struct {
	router *CommandRouter
}

func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.router.output, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.router.output, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  jsonsieve help              Show general help
  jsonsieve help <command>    Show help for a specific command

Examples:
  jsonsieve help auth         # Show auth command help
  jsonsieve auth --help       # Alternative way to get command help
`
}

// formatCommandList creates an aligned list of the registered commands
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
