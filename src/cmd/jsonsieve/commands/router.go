// FILE: jsonsieve/src/cmd/jsonsieve/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"

	"jsonsieve/src/internal/auth"
	"jsonsieve/src/internal/tls"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter routes CLI arguments to a subcommand handler.
// Anything that is not a registered command is left to the main program,
// which treats it as flags and input files.
type CommandRouter struct {
	commands map[string]Handler
	output   io.Writer
}

func NewCommandRouter() *CommandRouter {
	return newCommandRouter(os.Stdout)
}

func newCommandRouter(output io.Writer) *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		output:   output,
	}

	router.commands["auth"] = auth.NewGeneratorCommand()
	router.commands["cert"] = tls.NewCertCommand()
	router.commands["config"] = NewConfigCommand()
	router.commands["version"] = NewVersionCommand(output)
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route executes a subcommand if args name one.
// It reports whether the arguments were handled.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.output, handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		return false, nil
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}
