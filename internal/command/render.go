package command

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/formlab/formlab/internal/config"
	"github.com/formlab/formlab/internal/document"
	"github.com/formlab/formlab/internal/shell"
)

// RenderCommand prints a one-shot interpolated rendering of a form.
type RenderCommand struct {
	*BaseCommand
	config *config.Config
	file   string
	dir    string
}

// NewRenderCommand creates a new render command.
func NewRenderCommand(cfg *config.Config) *RenderCommand {
	return &RenderCommand{
		BaseCommand: NewBaseCommand(
			"render",
			"Render a form document as text, once",
			"render [-f file.json] [form name]",
		),
		config: cfg,
	}
}

// SetupFlags configures the render command flags.
func (c *RenderCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "render a form document from a JSON file instead of the catalog")
	fs.StringVar(&c.dir, "dir", "", "catalog directory (overrides config)")
}

// loadForm resolves the form to operate on: an explicit file, or a catalog
// lookup by display name. The returned lookup serves openForm navigation.
func loadForm(cfg *config.Config, file, dirOverride string, args []string) (*document.Form, shell.FormLookup, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		form, err := document.Parse(data)
		if err != nil {
			return nil, nil, err
		}
		return form, nil, nil
	}

	if len(args) == 0 {
		return nil, nil, fmt.Errorf("a form name or -f file is required")
	}

	cat, err := openCatalog(cfg, dirOverride)
	if err != nil {
		return nil, nil, err
	}
	form, err := cat.LookupByName(args[0])
	if err != nil {
		return nil, nil, err
	}
	if form == nil {
		return nil, nil, fmt.Errorf("form %q not found", args[0])
	}
	lookup := func(name string) (*document.Form, bool) {
		f, err := cat.LookupByName(name)
		if err != nil || f == nil {
			return nil, false
		}
		return f, true
	}
	return form, lookup, nil
}

// Execute renders the form.
func (c *RenderCommand) Execute(args []string, stdout, stderr io.Writer) error {
	form, lookup, err := loadForm(c.config, c.file, c.dir, args)
	if err != nil {
		return err
	}

	s := shell.New(shell.Options{Currency: c.config.Currency, Lookup: lookup})
	defer s.Close()
	s.Open(form)

	_, _ = io.WriteString(stdout, s.Render())
	return nil
}
