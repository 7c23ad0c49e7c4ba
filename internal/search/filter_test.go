package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/tair/storefront/internal/catalog/domain"
)

func names(list []catalog.Product) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	c := catalog.Default()

	res := Filter(c, "xp", "")
	require.True(t, res.Shown)
	printers := res.For(catalog.CategoryPrinters)
	require.Len(t, printers, 6)
	assert.Contains(t, names(printers), "طابعة حرارية Xprinter XP-350B")
	assert.Empty(t, res.For(catalog.CategoryScanners))

	upper := Filter(c, "HENEX hc-6", "")
	assert.Len(t, upper.For(catalog.CategoryScanners), 4)
}

func TestFilterNoMatchesInAnyCategory(t *testing.T) {
	c := catalog.Default()

	res := Filter(c, "zzz", "")
	assert.True(t, res.Shown)
	assert.True(t, res.Empty())
	for _, key := range c.Keys() {
		list, ok := res.Categories[key]
		require.True(t, ok, "category %s present", key)
		assert.Empty(t, list)
	}
	assert.Empty(t, res.Flat())
}

func TestFilterEmptyQueryShowsNothing(t *testing.T) {
	res := Filter(catalog.Default(), "", "")
	assert.False(t, res.Shown)
	assert.False(t, res.Empty())
	assert.Equal(t, 0, res.Count())
}

func TestFilterArabicQueryScopedByCategory(t *testing.T) {
	c := catalog.Default()

	res := Filter(c, "طابعة", "")
	assert.Len(t, res.For(catalog.CategoryPrinters), 6)
	for _, key := range c.Keys() {
		if key != catalog.CategoryPrinters {
			assert.Empty(t, res.For(key), key)
		}
	}

	scoped := Filter(c, "طابعة", catalog.CategoryScanners)
	assert.Empty(t, scoped.For(catalog.CategoryPrinters))
	assert.Empty(t, scoped.For(catalog.CategoryScanners))

	scoped = Filter(c, "henex", catalog.CategoryScanners)
	assert.Empty(t, scoped.For(catalog.CategoryPrinters))
	assert.Len(t, scoped.For(catalog.CategoryScanners), 6)
}

func TestFilterKeepsCatalogOrder(t *testing.T) {
	c := catalog.Default()

	res := Filter(c, "ملصقات", "")
	got := res.For(catalog.CategoryLabels)
	require.Len(t, got, 6)
	for i, p := range got {
		assert.Equal(t, i, p.Position)
	}
	assert.Equal(t, c.Keys(), res.Order)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Xprinter XP-350B", "xp-350"))
	assert.True(t, Matches("درج النقود الذهبي", "الذهب"))
	assert.False(t, Matches("Henex HC-777", "xp"))
	assert.True(t, Matches("anything", ""))
}
