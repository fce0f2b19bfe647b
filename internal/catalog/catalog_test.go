package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlab/formlab/internal/document"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestCatalogSaveLoadDelete(t *testing.T) {
	c := openTestCatalog(t)

	form := document.NewForm("Checkout")
	form.Components = []document.Component{
		{ID: "c1", Type: document.TypeHeading, Name: "title", Props: map[string]any{"text": "Checkout"}},
	}
	require.NoError(t, c.Save(form))

	loaded, err := c.Load(form.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Checkout", loaded.Name)
	require.Len(t, loaded.Components, 1)
	assert.Equal(t, document.TypeHeading, loaded.Components[0].Type)
	assert.Equal(t, "Checkout", loaded.Components[0].PropString("text"))

	require.NoError(t, c.Delete(form.ID))
	gone, err := c.Load(form.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "missing form loads as (nil, nil)")

	// Deleting again is a no-op.
	require.NoError(t, c.Delete(form.ID))
}

func TestCatalogLookupByName(t *testing.T) {
	c := openTestCatalog(t)

	a := document.NewForm("Menu")
	b := document.NewForm("Checkout")
	require.NoError(t, c.Save(a))
	require.NoError(t, c.Save(b))

	found, err := c.LookupByName("Checkout")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, b.ID, found.ID)

	missing, err := c.LookupByName("No Such Form")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogLookupDuplicateNamesFirstWins(t *testing.T) {
	c := openTestCatalog(t)

	first := document.NewForm("Kiosk")
	second := document.NewForm("Kiosk")
	require.NoError(t, c.Save(first))
	require.NoError(t, c.Save(second))

	found, err := c.LookupByName("Kiosk")
	require.NoError(t, err)
	require.NotNil(t, found)
	// Listing order is name then ID, so the smaller ID wins deterministically.
	wantID := first.ID
	if second.ID < first.ID {
		wantID = second.ID
	}
	assert.Equal(t, wantID, found.ID)
}

func TestCatalogListIgnoresForeignFiles(t *testing.T) {
	c := openTestCatalog(t)

	form := document.NewForm("Only Form")
	require.NoError(t, c.Save(form))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "notes.txt"), []byte("not a form"), 0644))

	forms, err := c.List()
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Only Form", forms[0].Name)
}

func TestCatalogSaveIsAtomic(t *testing.T) {
	c := openTestCatalog(t)

	form := document.NewForm("Stable")
	require.NoError(t, c.Save(form))
	require.NoError(t, c.Save(form)) // overwrite through rename

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "no temp files left behind")
	}
}
