package command

import (
	"flag"
	"io"
)

// Command is one formlab subcommand. The entry point builds a per-command
// flag.FlagSet, lets the command populate it via SetupFlags, and hands the
// remaining arguments to Execute.
type Command interface {
	Name() string
	Description() string
	Usage() string
	SetupFlags(fs *flag.FlagSet)
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the static metadata every command shares. Concrete
// commands embed it and implement Execute.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{name: name, description: description, usage: usage}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags declares no flags; commands that take flags override it.
func (c *BaseCommand) SetupFlags(fs *flag.FlagSet) {}
