package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogAssignsStableIDs(t *testing.T) {
	c := Default()

	require.Equal(t, []string{"printers", "scanners", "cash-drawers", "assemblies", "labels", "equipment"}, c.Keys())

	printers := c.Products(CategoryPrinters)
	require.Len(t, printers, 6)
	assert.Equal(t, "printers-1", printers[0].ID)
	assert.Equal(t, "printers-4", printers[3].ID)
	assert.Equal(t, printers[0].Name, printers[3].Name, "catalog keeps duplicate names")
	assert.NotEqual(t, printers[0].ID, printers[3].ID)
	assert.Equal(t, CategoryPrinters, printers[0].Category)
}

func TestCatalogLookup(t *testing.T) {
	c := Default()

	p, err := c.Product("labels-2")
	require.NoError(t, err)
	assert.Equal(t, "ملصقات ملونة", p.Name)
	assert.Equal(t, 3000, p.Price)

	_, err = c.Product("labels-99")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = c.Category("store")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.False(t, c.HasCategory("store"))
	assert.True(t, c.HasCategory(CategoryEquipment))

	assert.Len(t, c.All(), 36)
}

func TestNewCatalogKeepsExplicitIDs(t *testing.T) {
	c := NewCatalog(
		[]Category{{Name: "A", Link: "a"}},
		map[string][]Product{"a": {{ID: "sku-1", Name: "one"}, {Name: "two"}}},
	)

	list := c.Products("a")
	require.Len(t, list, 2)
	assert.Equal(t, "sku-1", list[0].ID)
	assert.Equal(t, "a-2", list[1].ID)
	assert.Equal(t, 1, list[1].Position)
}

func TestSubset(t *testing.T) {
	c := Default()

	sub := c.Subset(CategoryAssemblies, "store")
	assert.Equal(t, []string{CategoryAssemblies}, sub.Keys())
	require.Len(t, sub.Products(CategoryAssemblies), 6)
	assert.Equal(t, "assemblies-3", sub.Products(CategoryAssemblies)[2].ID)

	_, err := sub.Product("printers-1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
