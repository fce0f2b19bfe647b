package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/formlab/formlab/internal/catalog"
	"github.com/formlab/formlab/internal/config"
	"github.com/formlab/formlab/internal/document"
)

// FormsCommand manages the saved-form catalog.
type FormsCommand struct {
	*BaseCommand
	config *config.Config
	dir    string
}

// NewFormsCommand creates a new forms command.
func NewFormsCommand(cfg *config.Config) *FormsCommand {
	return &FormsCommand{
		BaseCommand: NewBaseCommand(
			"forms",
			"List, import, show and delete saved form documents",
			"forms <list|import|show|delete> [args...]",
		),
		config: cfg,
	}
}

// SetupFlags configures the forms command flags.
func (c *FormsCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.dir, "dir", "", "catalog directory (overrides config)")
}

// openCatalog resolves the catalog directory: the -dir flag, then config,
// then the per-user default.
func openCatalog(cfg *config.Config, override string) (*catalog.Catalog, error) {
	dir := override
	if dir == "" {
		dir = cfg.CatalogDir
	}
	if dir == "" {
		var err error
		dir, err = catalog.DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return catalog.Open(dir)
}

// Execute dispatches to the forms subcommand.
func (c *FormsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stderr, "Usage:", c.Usage())
		return fmt.Errorf("missing subcommand")
	}

	cat, err := openCatalog(c.config, c.dir)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return c.list(cat, stdout)
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("usage: forms import <file.json>")
		}
		return c.importFile(cat, args[1], stdout)
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: forms show <name>")
		}
		return c.show(cat, args[1], stdout)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: forms delete <id>")
		}
		return cat.Delete(args[1])
	default:
		return fmt.Errorf("unknown forms subcommand: %s", args[0])
	}
}

func (c *FormsCommand) list(cat *catalog.Catalog, stdout io.Writer) error {
	forms, err := cat.List()
	if err != nil {
		return err
	}
	if len(forms) == 0 {
		_, _ = fmt.Fprintln(stdout, "No saved forms.")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOMPONENTS\tUPDATED")
	for _, f := range forms {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			f.ID, f.Name, len(f.Components), f.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (c *FormsCommand) importFile(cat *catalog.Catalog, path string, stdout io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	form, err := document.Parse(data)
	if err != nil {
		return err
	}
	if err := cat.Save(form); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Imported %q as %s\n", form.Name, form.ID)
	return nil
}

func (c *FormsCommand) show(cat *catalog.Catalog, name string, stdout io.Writer) error {
	form, err := cat.LookupByName(name)
	if err != nil {
		return err
	}
	if form == nil {
		return fmt.Errorf("form %q not found", name)
	}
	data, err := form.Encode()
	if err != nil {
		return err
	}
	_, _ = stdout.Write(data)
	_, _ = fmt.Fprintln(stdout)
	return nil
}
