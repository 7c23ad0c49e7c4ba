package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/tair/storefront/internal/catalog/domain"
)

func product(name string, price int) catalog.Product {
	return catalog.Product{Name: name, Price: price, Img: "/images/" + name + ".png"}
}

func TestAddTwiceIncrementsSingleLine(t *testing.T) {
	var c Cart
	p := product("A", 100)

	c.Add(p)
	line := c.Add(p)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(product("B", 1))
	c.Add(product("A", 1))
	c.Add(product("B", 1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "B", lines[0].Name)
	assert.Equal(t, "A", lines[1].Name)
}

func TestUpdateQuantityScenario(t *testing.T) {
	var c Cart
	a := product("A", 100)

	c.Add(a)
	require.Equal(t, []Line{{Name: "A", Price: 100, Img: "/images/A.png", Quantity: 1}}, c.Lines())

	c.Add(a)
	assert.Equal(t, 2, c.Lines()[0].Quantity)

	_, found := c.UpdateQuantity("A", -1)
	require.True(t, found)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	line, found := c.UpdateQuantity("A", -1)
	require.True(t, found)
	assert.Equal(t, 0, line.Quantity)
	assert.Empty(t, c.Lines())
}

func TestUpdateQuantityByNegativeQuantityRemovesLine(t *testing.T) {
	var c Cart
	c.Add(product("A", 10))
	c.Add(product("B", 20))
	c.Add(product("B", 20))
	c.Add(product("C", 30))

	for _, l := range c.Lines() {
		cp := c
		cp.lines = c.Lines()
		cp.UpdateQuantity(l.Key(), -l.Quantity)
		_, still := cp.Find(l.Key())
		assert.False(t, still, "line %s should be removed", l.Key())
		assert.Equal(t, c.Len()-1, cp.Len())
	}
}

func TestUpdateQuantityClampsAtZero(t *testing.T) {
	var c Cart
	c.Add(product("A", 10))

	line, found := c.UpdateQuantity("A", -5)
	assert.True(t, found)
	assert.Equal(t, 0, line.Quantity)
	assert.Equal(t, 0, c.Len())
}

func TestUpdateQuantityUnknownKeyIsNoop(t *testing.T) {
	var c Cart
	c.Add(product("A", 10))

	_, found := c.UpdateQuantity("missing", 3)
	assert.False(t, found)
	assert.Equal(t, 1, c.TotalCount())
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(product("A", 10))
	c.Add(product("A", 10))
	c.Add(product("B", 5))

	removed, ok := c.Remove("A")
	require.True(t, ok)
	assert.Equal(t, 2, removed.Quantity)
	assert.Equal(t, []string{"B"}, names(c))

	_, ok = c.Remove("A")
	assert.False(t, ok)
}

func TestTotals(t *testing.T) {
	var c Cart
	assert.Equal(t, 0, c.TotalPrice())
	assert.Equal(t, 0, c.TotalCount())

	c.Add(product("A", 100))
	c.Add(product("A", 100))
	c.Add(product("B", 250))

	assert.Equal(t, 450, c.TotalPrice())
	assert.Equal(t, 3, c.TotalCount())

	c.Clear()
	assert.Equal(t, 0, c.TotalPrice())
}

func TestDuplicateNamesWithDistinctIDsStaySeparate(t *testing.T) {
	cat := catalog.Default()
	first, err := cat.Product("printers-1")
	require.NoError(t, err)
	twin, err := cat.Product("printers-4")
	require.NoError(t, err)
	require.Equal(t, first.Name, twin.Name)

	var c Cart
	c.Add(first)
	c.Add(twin)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "printers-1", c.Lines()[0].Key())
	assert.Equal(t, "printers-4", c.Lines()[1].Key())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var c Cart
	c.Add(catalog.Product{ID: "labels-1", Name: "ملصقات حرارية", Price: 2000, Img: "/images/label-1.png", Description: "ملصقات"})
	c.Add(product("A", 100))
	c.Add(product("A", 100))

	raw, err := Encode(c)
	require.NoError(t, err)

	back, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, c.Lines(), back.Lines())
}

func TestEncodeEmptyCart(t *testing.T) {
	raw, err := Encode(Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodeLegacyLayout(t *testing.T) {
	raw := `[{"name":"درج النقود الفضي","price":9000,"img":"/images/cash-drawer-1.png","quantity":3}]`

	c, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "درج النقود الفضي", c.Lines()[0].Key())
	assert.Equal(t, 27000, c.TotalPrice())
}

func TestDecodeRejectsCorruptData(t *testing.T) {
	cases := map[string]string{
		"syntax":         `[{"name":`,
		"wrong shape":    `{"name":"A"}`,
		"wrong type":     `[{"name":"A","price":"cheap","quantity":1}]`,
		"zero quantity":  `[{"name":"A","price":1,"quantity":0}]`,
		"duplicate line": `[{"name":"A","price":1,"quantity":1},{"name":"A","price":1,"quantity":2}]`,
		"missing name":   `[{"price":1,"quantity":1}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, ErrCorruptCart)
		})
	}
}

func TestDecodeNull(t *testing.T) {
	c, err := Decode("null")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func names(c Cart) []string {
	var out []string
	for _, l := range c.Lines() {
		out = append(out, l.Name)
	}
	return out
}
