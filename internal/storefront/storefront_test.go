package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/cart/storage"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/nav"
	"github.com/tair/storefront/internal/search"
	"github.com/tair/storefront/pkg/session"
)

func newTestService(t *testing.T, store storage.Storage) *Service {
	t.Helper()
	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	svc := NewService(Config{IdleTTL: time.Minute, SearchDelay: 10 * time.Millisecond, SlowDelay: 20 * time.Millisecond},
		catalog.Default(), store, issuer, nil, nil)
	t.Cleanup(svc.Close)
	return svc
}

func TestPages(t *testing.T) {
	pages := NewPages(catalog.Default(), 0, 0)

	list := pages.List()
	require.Len(t, list, 3)
	assert.Equal(t, PageHome, list[0].Key)

	home, err := pages.Get(PageHome)
	require.NoError(t, err)
	assert.Len(t, home.Categories, 7)
	assert.Equal(t, StoreSection, home.Categories[0].Link)
	assert.Equal(t, StoreSection, home.DefaultActive)
	assert.Equal(t, search.DefaultDelay, home.SearchDelay)
	assert.Len(t, home.CatalogKeys(), 6)

	labels, err := pages.Get(PageLabels)
	require.NoError(t, err)
	assert.Len(t, labels.Categories, 6)
	assert.Equal(t, catalog.CategoryPrinters, labels.DefaultActive)
	assert.Equal(t, "معدات", labels.Categories[5].Name)

	assemblies, err := pages.Get(PageAssemblies)
	require.NoError(t, err)
	assert.True(t, assemblies.Flat)
	assert.Equal(t, search.SlowDelay, assemblies.SearchDelay)
	assert.Equal(t, []string{catalog.CategoryAssemblies}, assemblies.CatalogKeys())

	_, err = pages.Get("checkout")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPagesDoNotShareCategoryLabels(t *testing.T) {
	c := catalog.Default()
	NewPages(c, 0, 0)

	cat, err := c.Category(catalog.CategoryEquipment)
	require.NoError(t, err)
	assert.Equal(t, "معدات إعلام آلي", cat.Name)
}

func TestOpenAndResume(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryStorage())

	token, sess, err := svc.Open(ctx, PageHome)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, StoreSection, sess.Nav.Active())

	p, err := svc.Catalog().Product("printers-1")
	require.NoError(t, err)
	sess.Cart.Add(ctx, p)

	resumed, err := svc.Resume(ctx, token)
	require.NoError(t, err)
	assert.Same(t, sess, resumed)
	assert.Equal(t, 1, resumed.Cart.TotalCount())

	_, err = svc.Resume(ctx, token+"x")
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	_, _, err = svc.Open(ctx, "nope")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestSweepKeepsCartInStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	svc := newTestService(t, store)

	now := time.Now()
	svc.now = func() time.Time { return now }

	token, sess, err := svc.Open(ctx, PageLabels)
	require.NoError(t, err)
	p, err := svc.Catalog().Product("labels-2")
	require.NoError(t, err)
	sess.Cart.Add(ctx, p)
	sess.Cart.Add(ctx, p)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, svc.Sweep(ctx))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, svc.Sweep(ctx))
	assert.Equal(t, 0, svc.Len())

	_, err = svc.Lookup(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	resumed, err := svc.Resume(ctx, token)
	require.NoError(t, err)
	assert.NotSame(t, sess, resumed)
	assert.Equal(t, 2, resumed.Cart.TotalCount())
	assert.Equal(t, 6000, resumed.Cart.TotalPrice())
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryStorage())

	_, a, err := svc.Open(ctx, PageHome)
	require.NoError(t, err)
	_, b, err := svc.Open(ctx, PageHome)
	require.NoError(t, err)

	p, err := svc.Catalog().Product("scanners-1")
	require.NoError(t, err)
	a.Cart.Add(ctx, p)

	assert.Equal(t, 1, a.Cart.TotalCount())
	assert.Equal(t, 0, b.Cart.TotalCount())
	assert.Equal(t, 2, svc.Len())
}

func TestAssembliesSearchIsScoped(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryStorage())

	_, sess, err := svc.Open(ctx, PageAssemblies)
	require.NoError(t, err)

	sess.Search.Type("ت")
	require.Eventually(t, func() bool { return !sess.Search.State().Searching }, time.Second, 5*time.Millisecond)

	res := sess.Search.State().Results
	assert.Equal(t, []string{catalog.CategoryAssemblies}, res.Order)
	assert.Len(t, res.Flat(), 6)

	_, err = sess.Search.Select(ctx, "printers-1", sess.Cart)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	_, err = sess.Search.Select(ctx, "assemblies-1", sess.Cart)
	require.NoError(t, err)
	assert.Equal(t, 55000, sess.Cart.TotalPrice())
}

func TestHomeStoreSectionDoesNotScroll(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryStorage())

	_, sess, err := svc.Open(ctx, PageHome)
	require.NoError(t, err)

	target := sess.Nav.Activate(catalog.CategoryLabels, nav.Geometry{ElementTop: 100, PageYOffset: 400})
	assert.True(t, target.Scroll)
	assert.Equal(t, 420.0, target.Top)

	target = sess.Nav.Activate(StoreSection, nav.Geometry{ElementTop: 100})
	assert.False(t, target.Scroll)
}
