package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/cart"
	"github.com/tair/storefront/internal/cart/storage"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/catalog/repository"
	"github.com/tair/storefront/internal/catalog/usecase/query"
	"github.com/tair/storefront/internal/storefront"
	"github.com/tair/storefront/pkg/session"
)

type testServer struct {
	router  *mux.Router
	handler *StorefrontHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	c := catalog.Default()
	repo := repository.NewStaticCatalogRepository(c)
	issuer, err := session.NewIssuer("handler-secret", time.Hour)
	require.NoError(t, err)

	svc := storefront.NewService(storefront.Config{SearchDelay: 10 * time.Millisecond},
		c, storage.NewMemoryStorage(), issuer, nil, cart.NewMetrics(nil))
	t.Cleanup(svc.Close)

	h := NewStorefrontHandler(
		query.NewListCategoriesHandler(repo),
		query.NewListProductsHandler(repo),
		query.NewGetProductHandler(repo),
		svc,
		prometheus.NewRegistry(),
	)

	router := mux.NewRouter()
	RegisterMiddlewares(router, &MiddlewareConfig{Recovery: true, Logging: true})
	h.RegisterRoutes(router)
	h.RegisterHealthCheck(router)
	return &testServer{router: router, handler: h}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) open(t *testing.T, page string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/session", "", map[string]string{"page": page})
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

type cartData struct {
	Items []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	TotalPrice   int `json:"total_price"`
	TotalCount   int `json:"total_count"`
	Notification *struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"notification"`
}

func decodeCart(t *testing.T, env envelope) cartData {
	t.Helper()
	var c cartData
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/pages", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = s.do(t, http.MethodGet, "/api/pages/assemblies", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Key           string `json:"key"`
		Flat          bool   `json:"flat"`
		SearchDelayMs int64  `json:"search_delay_ms"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "assemblies", page.Key)
	assert.True(t, page.Flat)
	assert.Equal(t, int64(500), page.SearchDelayMs)

	code, _ = s.do(t, http.MethodGet, "/api/pages/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/products/scanners-3", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Henex HC-777")

	code, env = s.do(t, http.MethodGet, "/api/products/scanners-99", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/api/catalog/labels", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/catalog/store", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/catalog", "", nil)
	require.Equal(t, http.StatusOK, code)
	var full struct {
		Categories []catalog.Category            `json:"categories"`
		Products   map[string][]catalog.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &full))
	assert.Len(t, full.Categories, 6)
	assert.Len(t, full.Products[catalog.CategoryEquipment], 6)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/search?q=XP", "", nil)
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Total int  `json:"total"`
		Empty bool `json:"empty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 6, data.Total)
	assert.False(t, data.Empty)

	code, env = s.do(t, http.MethodGet, "/api/search?q=zzz", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Empty)

	code, env = s.do(t, http.MethodGet, "/api/search?q=XP&page=assemblies", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 0, data.Total)

	code, _ = s.do(t, http.MethodGet, "/api/search?q=XP&category=store", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/api/cart", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/session", "", map[string]string{"page": "checkout"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t, storefront.PageHome)

	code, env := s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "printers-1"})
	require.Equal(t, http.StatusOK, code)
	c := decodeCart(t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	require.NotNil(t, c.Notification)
	assert.Equal(t, `تم إضافة "طابعة حرارية Xprinter XP-350B" إلى السلة`, c.Notification.Message)

	// same name, different listing
	s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "printers-4"})
	_, env = s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "printers-1"})
	c = decodeCart(t, env)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.TotalCount)
	assert.Equal(t, 3*16500, c.TotalPrice)

	code, env = s.do(t, http.MethodPatch, "/api/cart/items/printers-1", token, map[string]int{"delta": -5})
	require.Equal(t, http.StatusOK, code)
	c = decodeCart(t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "printers-4", c.Items[0].ID)

	code, env = s.do(t, http.MethodPatch, "/api/cart/items/nope", token, map[string]int{"delta": 1})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No matching cart line", env.Message)

	code, _ = s.do(t, http.MethodPatch, "/api/cart/items/printers-4", token, map[string]int{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "nope"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodDelete, "/api/cart/items/printers-4", token, nil)
	require.Equal(t, http.StatusOK, code)
	c = decodeCart(t, env)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalPrice)
	require.NotNil(t, c.Notification)
	assert.Equal(t, "removed", c.Notification.Kind)

	code, env = s.do(t, http.MethodGet, "/api/notification", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "من السلة")

	s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "labels-1"})
	code, env = s.do(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decodeCart(t, env).Items)
}

func TestAddToCartIsScopedToPage(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t, storefront.PageAssemblies)

	code, env := s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "printers-1"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodPost, "/api/search/select", token, map[string]string{"product_id": "printers-1"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodPost, "/api/cart/items", token, map[string]string{"product_id": "assemblies-2"})
	require.Equal(t, http.StatusOK, code)
	c := decodeCart(t, env)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "assemblies-2", c.Items[0].ID)
	assert.Equal(t, 30000, c.TotalPrice)
}

func TestSearchSessionFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t, storefront.PageLabels)

	code, _ := s.do(t, http.MethodPut, "/api/search/query", token, map[string]string{"query": "درج"})
	require.Equal(t, http.StatusAccepted, code)

	type state struct {
		Query     string `json:"query"`
		Searching bool   `json:"searching"`
		Empty     bool   `json:"empty"`
	}
	require.Eventually(t, func() bool {
		_, env := s.do(t, http.MethodGet, "/api/search/state", token, nil)
		var st state
		return json.Unmarshal(env.Data, &st) == nil && !st.Searching
	}, time.Second, 10*time.Millisecond)

	code, env := s.do(t, http.MethodPut, "/api/search/category", token, map[string]string{"category": "printers"})
	require.Equal(t, http.StatusOK, code)
	var st state
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.True(t, st.Empty)

	code, _ = s.do(t, http.MethodPut, "/api/search/category", token, map[string]string{"category": "store"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodPost, "/api/search/select", token, map[string]string{"product_id": "cash-drawers-1"})
	require.Equal(t, http.StatusOK, code)
	var selected struct {
		Cart   cartData `json:"cart"`
		Search state    `json:"search"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &selected))
	assert.Equal(t, 9000, selected.Cart.TotalPrice)
	assert.Equal(t, "", selected.Search.Query)

	code, _ = s.do(t, http.MethodDelete, "/api/search/query", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNavEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.open(t, storefront.PageHome)

	code, env := s.do(t, http.MethodPost, "/api/nav/active", token, map[string]interface{}{
		"category":      "scanners",
		"element_top":   250,
		"page_y_offset": 1000,
	})
	require.Equal(t, http.StatusOK, code)
	var target struct {
		Section string  `json:"section"`
		Top     float64 `json:"top"`
		Scroll  bool    `json:"scroll"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &target))
	assert.Equal(t, "scanners", target.Section)
	assert.Equal(t, 1170.0, target.Top)
	assert.True(t, target.Scroll)

	code, env = s.do(t, http.MethodPost, "/api/nav/active", token, map[string]interface{}{"category": "store"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &target))
	assert.False(t, target.Scroll)

	code, env = s.do(t, http.MethodPost, "/api/nav/observe", token, map[string]string{"category": "labels"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"active":"labels"}`, string(env.Data))

	code, _ = s.do(t, http.MethodPost, "/api/nav/active", token, map[string]string{"category": "checkout"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	router := mux.NewRouter()
	s.handler.RegisterHealthCheck(router, HealthCheck{
		Name: "redis",
		Ping: func(context.Context) error { return errors.New("connection refused") },
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddlewares(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	assert.Equal(t, float64(2), testutil.ToFloat64(s.handler.requestCounter.WithLabelValues("GET", "/api/pages", "200")))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
