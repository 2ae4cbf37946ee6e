package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testCatalogJSON = `[
	{"id": "p1", "name": "Battery Pack", "description": "Rechargeable AA cells", "price": 10.00, "image": "http://img/p1.jpg"},
	{"id": "p2", "name": "Charger", "description": "Fast USB charger", "price": "$5.00", "image": "http://img/p2.jpg"},
	{"id": "p3", "name": "Cable", "description": "Braided charger cable", "price": 7.50, "image": "http://img/p3.jpg"}
]`

func TestLoad_Success(t *testing.T) {
	path := writeCatalogFile(t, testCatalogJSON)

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	p, err := store.FindByID("p2")
	require.NoError(t, err)
	assert.Equal(t, "Charger", p.Name)
	assert.Equal(t, 5.00, p.Price.Amount())
}

func TestLoad_MissingFile_EmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorIs(t, err, ErrCatalogLoad)
	require.NotNil(t, store)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Search(""))
}

func TestLoad_MalformedFile_EmptyStore(t *testing.T) {
	path := writeCatalogFile(t, "{not json")

	store, err := Load(path)

	assert.ErrorIs(t, err, ErrCatalogLoad)
	require.NotNil(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestFindByID_NotFound(t *testing.T) {
	path := writeCatalogFile(t, testCatalogJSON)
	store, err := Load(path)
	require.NoError(t, err)

	p, err := store.FindByID("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, p)
}

func TestSearch_EmptyQueryReturnsAllInLoadOrder(t *testing.T) {
	path := writeCatalogFile(t, testCatalogJSON)
	store, err := Load(path)
	require.NoError(t, err)

	all := store.Search("")
	require.Len(t, all, 3)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p2", all[1].ID)
	assert.Equal(t, "p3", all[2].ID)

	// Whitespace-only queries behave like empty ones.
	assert.Len(t, store.Search("   "), 3)
}

func TestSearch_CaseInsensitiveOverNameAndDescription(t *testing.T) {
	path := writeCatalogFile(t, testCatalogJSON)
	store, err := Load(path)
	require.NoError(t, err)

	byName := store.Search("BATTERY")
	require.Len(t, byName, 1)
	assert.Equal(t, "p1", byName[0].ID)

	// "charger" hits p2 by name and p3 by description.
	byBoth := store.Search("charger")
	require.Len(t, byBoth, 2)
	assert.Equal(t, "p2", byBoth[0].ID)
	assert.Equal(t, "p3", byBoth[1].ID)

	assert.Empty(t, store.Search("no-such-thing"))
}
