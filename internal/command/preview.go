package command

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/formlab/formlab/internal/config"
	"github.com/formlab/formlab/internal/runtime"
	"github.com/formlab/formlab/internal/scripting"
	"github.com/formlab/formlab/internal/shell"
)

// PreviewCommand drives an interactive preview session from stdin
// directives, one per line:
//
//	set <component> <value...>     input change
//	check <component> on|off       checkbox change
//	select <component> <value>     selection change
//	press <component>              trigger declared actions + onClick hook
//	vars                           dump the merged variable view
//	cart                           dump the cart
//	show                           print the current rendering
//	quit                           end the session
type PreviewCommand struct {
	*BaseCommand
	config *config.Config
	file   string
	dir    string
	echo   bool
	stdin  io.Reader
}

// NewPreviewCommand creates a new preview command.
func NewPreviewCommand(cfg *config.Config) *PreviewCommand {
	return &PreviewCommand{
		BaseCommand: NewBaseCommand(
			"preview",
			"Run an interactive preview session driven by stdin directives",
			"preview [-f file.json] [-echo] [form name]",
		),
		config: cfg,
		stdin:  os.Stdin,
	}
}

// SetupFlags configures the preview command flags.
func (c *PreviewCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "preview a form document from a JSON file instead of the catalog")
	fs.StringVar(&c.dir, "dir", "", "catalog directory (overrides config)")
	fs.BoolVar(&c.echo, "echo", false, "echo each directive before executing it")
}

// SetInput overrides the directive source; used by tests.
func (c *PreviewCommand) SetInput(r io.Reader) {
	c.stdin = r
}

// Execute runs the preview loop until quit or EOF.
func (c *PreviewCommand) Execute(args []string, stdout, stderr io.Writer) error {
	form, lookup, err := loadForm(c.config, c.file, c.dir, args)
	if err != nil {
		return err
	}

	s := shell.New(shell.Options{Currency: c.config.Currency, Lookup: lookup})
	defer s.Close()
	s.Open(form)

	if c.config.Preview.HooksEnabled {
		engine, err := scripting.NewEngine(context.Background(), s.Session())
		if err != nil {
			return fmt.Errorf("failed to start hook engine: %w", err)
		}
		defer engine.Close()
		engine.SetTimeout(time.Duration(c.config.Preview.HookTimeoutMs) * time.Millisecond)
		s.Session().Dispatcher.SetScriptHook(engine.Hook())
	}

	_, _ = io.WriteString(stdout, s.Render())

	scanner := bufio.NewScanner(c.stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.echo {
			_, _ = fmt.Fprintf(stdout, "> %s\n", line)
		}
		if line == "quit" {
			break
		}
		if err := c.execute(s, line, stdout, stderr); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		}
		if notice := s.Notice(); notice != "" {
			_, _ = fmt.Fprintf(stdout, "! %s\n", notice)
		}
	}
	return scanner.Err()
}

func (c *PreviewCommand) execute(s *shell.Shell, line string, stdout, stderr io.Writer) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "set":
		if len(fields) < 3 {
			return fmt.Errorf("usage: set <component> <value...>")
		}
		return s.SetInput(fields[1], strings.Join(fields[2:], " "))
	case "check":
		if len(fields) != 3 {
			return fmt.Errorf("usage: check <component> on|off")
		}
		return s.SetChecked(fields[1], fields[2] == "on")
	case "select":
		if len(fields) != 3 {
			return fmt.Errorf("usage: select <component> <value>")
		}
		return s.Select(fields[1], fields[2])
	case "press":
		if len(fields) != 2 {
			return fmt.Errorf("usage: press <component>")
		}
		return s.Trigger(fields[1])
	case "vars":
		c.dumpVars(s, stdout)
		return nil
	case "cart":
		c.dumpCart(s, stdout)
		return nil
	case "show":
		_, _ = io.WriteString(stdout, s.Render())
		return nil
	default:
		return fmt.Errorf("unknown directive: %s", fields[0])
	}
}

func (c *PreviewCommand) dumpVars(s *shell.Shell, stdout io.Writer) {
	snapshot := s.Session().Store.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(stdout, "%s = %s\n", name, runtime.Stringify(snapshot[name]))
	}
}

func (c *PreviewCommand) dumpCart(s *shell.Shell, stdout io.Writer) {
	cart := s.Session().Store.Cart()
	for _, item := range cart.Items() {
		_, _ = fmt.Fprintf(stdout, "%dx %s @ %d\n", item.Quantity, item.Name, item.UnitPrice)
	}
	_, _ = fmt.Fprintf(stdout, "total %d (%d items)\n", cart.Total(), cart.Count())
}
