// Package catalog persists saved form documents as JSON files in one
// directory and resolves forms by display name for the preview shell.
// Display names are a weak identity: duplicates are allowed and lookup
// returns the first match in listing order.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/formlab/formlab/internal/document"
)

// Catalog is a directory of persisted form documents. File naming:
// {form_id}.form.json.
type Catalog struct {
	dir string
}

const fileSuffix = ".form.json"

// DefaultDirectory returns {UserConfigDir}/formlab/forms.
func DefaultDirectory() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "formlab", "forms"), nil
}

// Open returns a catalog rooted at dir, creating it if needed.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return nil, fmt.Errorf("catalog directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return &Catalog{dir: dir}, nil
}

// Dir returns the catalog's root directory.
func (c *Catalog) Dir() string {
	return c.dir
}

func (c *Catalog) path(id string) string {
	return filepath.Join(c.dir, id+fileSuffix)
}

// Save writes the form atomically, stamping UpdatedAt.
func (c *Catalog) Save(form *document.Form) error {
	if form.ID == "" {
		return fmt.Errorf("form ID cannot be empty")
	}
	form.UpdatedAt = time.Now()
	data, err := form.Encode()
	if err != nil {
		return err
	}
	if err := atomicWriteFile(c.path(form.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write form document: %w", err)
	}
	return nil
}

// Load retrieves a form by its unique ID. It returns (nil, nil) when the
// form does not exist.
func (c *Catalog) Load(id string) (*document.Form, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read form document: %w", err)
	}
	return document.Parse(data)
}

// Delete removes a form by ID. Deleting an absent form is a no-op.
func (c *Catalog) Delete(id string) error {
	if err := os.Remove(c.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete form document: %w", err)
	}
	return nil
}

// List loads every form in the catalog, sorted by display name and then ID
// for a stable order.
func (c *Catalog) List() ([]*document.Form, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var forms []*document.Form
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read form document %q: %w", name, err)
		}
		form, err := document.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("invalid form document %q: %w", name, err)
		}
		forms = append(forms, form)
	}

	sort.Slice(forms, func(i, j int) bool {
		if forms[i].Name != forms[j].Name {
			return forms[i].Name < forms[j].Name
		}
		return forms[i].ID < forms[j].ID
	})
	return forms, nil
}

// LookupByName resolves a form by display name, first match in listing
// order. It returns (nil, nil) when no form carries that name.
func (c *Catalog) LookupByName(name string) (*document.Form, error) {
	forms, err := c.List()
	if err != nil {
		return nil, err
	}
	for _, form := range forms {
		if form.Name == name {
			return form, nil
		}
	}
	return nil, nil
}
