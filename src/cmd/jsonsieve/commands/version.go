// FILE: jsonsieve/src/cmd/jsonsieve/commands/version.go
package commands

import (
	"fmt"
	"io"

	"jsonsieve/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	output io.Writer
}

func NewVersionCommand(output io.Writer) *VersionCommand {
	return &VersionCommand{output: output}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.output, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show jsonsieve version information

Usage:
  jsonsieve version
  jsonsieve -v
  jsonsieve -version

Output includes:
  - Version number
  - Git commit hash (if available)
  - Build date
  - Go version used for compilation
`
}
