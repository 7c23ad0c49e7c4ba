package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	cartdomain "github.com/tair/storefront/internal/cart/domain"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/catalog/usecase/query"
	"github.com/tair/storefront/internal/nav"
	"github.com/tair/storefront/internal/notify"
	"github.com/tair/storefront/internal/search"
	"github.com/tair/storefront/internal/storefront"
	"github.com/tair/storefront/pkg/logger"
)

// StorefrontHandler handles HTTP requests of the shop
type StorefrontHandler struct {
	// Query handlers
	listCategoriesHandler *query.ListCategoriesHandler
	listProductsHandler   *query.ListProductsHandler
	getProductHandler     *query.GetProductHandler

	service        *storefront.Service
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	liveSessions   prometheus.GaugeFunc
}

// NewStorefrontHandler creates a new storefront handler. Metrics are registered
// with reg when it is not nil.
func NewStorefrontHandler(
	listCategoriesHandler *query.ListCategoriesHandler,
	listProductsHandler *query.ListProductsHandler,
	getProductHandler *query.GetProductHandler,
	service *storefront.Service,
	reg prometheus.Registerer,
) *StorefrontHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_requests_total",
			Help: "Total number of requests to the storefront",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Duration of storefront requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "storefront_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	liveSessions := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "storefront_live_sessions",
			Help: "Number of shopper sessions held in memory",
		},
		func() float64 { return float64(service.Len()) },
	)

	if reg != nil {
		reg.MustRegister(requestCounter, requestLatency, requestSummary, liveSessions)
	}

	return &StorefrontHandler{
		listCategoriesHandler: listCategoriesHandler,
		listProductsHandler:   listProductsHandler,
		getProductHandler:     getProductHandler,
		service:               service,
		requestCounter:        requestCounter,
		requestLatency:        requestLatency,
		requestSummary:        requestSummary,
		liveSessions:          liveSessions,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *StorefrontHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *StorefrontHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/pages", h.metricsMiddleware("/api/pages", h.ListPages)).Methods("GET")
	router.HandleFunc("/api/pages/{page}", h.metricsMiddleware("/api/pages/{page}", h.GetPage)).Methods("GET")
	router.HandleFunc("/api/catalog", h.metricsMiddleware("/api/catalog", h.GetCatalog)).Methods("GET")
	router.HandleFunc("/api/catalog/{category}", h.metricsMiddleware("/api/catalog/{category}", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/search", h.metricsMiddleware("/api/search", h.Search)).Methods("GET")
	router.HandleFunc("/api/session", h.metricsMiddleware("/api/session", h.OpenSession)).Methods("POST")

	// Session routes (session token required)
	auth := SessionMiddleware(h.service)
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", auth(h.GetCart))).Methods("GET")
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", auth(h.ClearCart))).Methods("DELETE")
	router.HandleFunc("/api/cart/items", h.metricsMiddleware("/api/cart/items", auth(h.AddToCart))).Methods("POST")
	router.HandleFunc("/api/cart/items/{key}", h.metricsMiddleware("/api/cart/items/{key}", auth(h.UpdateQuantity))).Methods("PATCH")
	router.HandleFunc("/api/cart/items/{key}", h.metricsMiddleware("/api/cart/items/{key}", auth(h.RemoveFromCart))).Methods("DELETE")
	router.HandleFunc("/api/notification", h.metricsMiddleware("/api/notification", auth(h.GetNotification))).Methods("GET")
	router.HandleFunc("/api/search/query", h.metricsMiddleware("/api/search/query", auth(h.TypeQuery))).Methods("PUT")
	router.HandleFunc("/api/search/query", h.metricsMiddleware("/api/search/query", auth(h.ClearQuery))).Methods("DELETE")
	router.HandleFunc("/api/search/category", h.metricsMiddleware("/api/search/category", auth(h.SelectCategory))).Methods("PUT")
	router.HandleFunc("/api/search/state", h.metricsMiddleware("/api/search/state", auth(h.GetSearchState))).Methods("GET")
	router.HandleFunc("/api/search/select", h.metricsMiddleware("/api/search/select", auth(h.SelectResult))).Methods("POST")
	router.HandleFunc("/api/nav/active", h.metricsMiddleware("/api/nav/active", auth(h.ActivateCategory))).Methods("POST")
	router.HandleFunc("/api/nav/observe", h.metricsMiddleware("/api/nav/observe", auth(h.ObserveCategory))).Methods("POST")
}

type pageView struct {
	storefront.Page
	SearchDelayMs int64 `json:"search_delay_ms"`
}

func newPageView(p storefront.Page) pageView {
	return pageView{Page: p, SearchDelayMs: p.SearchDelay.Milliseconds()}
}

type cartView struct {
	Items        []cartdomain.Line    `json:"items"`
	TotalPrice   int                  `json:"total_price"`
	TotalCount   int                  `json:"total_count"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func newCartView(sess *storefront.Session) cartView {
	c := sess.Cart.Cart()
	view := cartView{
		Items:      c.Lines(),
		TotalPrice: c.TotalPrice(),
		TotalCount: c.TotalCount(),
	}
	if n, ok := sess.Cart.Notification(); ok {
		view.Notification = &n
	}
	return view
}

// ListPages handles GET /api/pages
func (h *StorefrontHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages := h.service.Pages().List()
	views := make([]pageView, 0, len(pages))
	for _, p := range pages {
		views = append(views, newPageView(p))
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    views,
	})
}

// GetPage handles GET /api/pages/{page}
func (h *StorefrontHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Pages().Get(mux.Vars(r)["page"])
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Page not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newPageView(page),
	})
}

// GetCatalog handles GET /api/catalog
func (h *StorefrontHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listCategoriesHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load catalog",
		})
		return
	}

	products, err := h.listProductsHandler.Handle(r.Context(), query.ListProductsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load catalog",
		})
		return
	}

	grouped := make(map[string][]catalog.Product, len(categories))
	for _, cat := range categories {
		grouped[cat.Link] = []catalog.Product{}
	}
	for _, p := range products {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"categories": categories,
			"products":   grouped,
		},
	})
}

// ListProducts handles GET /api/catalog/{category}
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	products, err := h.listProductsHandler.Handle(r.Context(), query.ListProductsQuery{Category: category})
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Category not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Str("category", category).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"category": category,
			"products": products,
			"total":    len(products),
		},
	})
}

// GetProduct handles GET /api/products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ProductID: id})
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to get product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get product",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// Search handles GET /api/search. It filters at once, without debounce.
func (h *StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := h.service.Catalog()

	if key := q.Get("page"); key != "" {
		page, err := h.service.Pages().Get(key)
		if err != nil {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Page not found",
			})
			return
		}
		c = page.Scope(c)
	}

	category := q.Get("category")
	if category != "" && !c.HasCategory(category) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Unknown category",
		})
		return
	}

	res := search.Filter(c, q.Get("q"), category)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"results": res,
			"total":   res.Count(),
			"empty":   res.Empty(),
		},
	})
}

// OpenSession handles POST /api/session
func (h *StorefrontHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page string `json:"page"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid request body",
			})
			return
		}
	}
	if req.Page == "" {
		req.Page = storefront.PageHome
	}

	token, sess, err := h.service.Open(r.Context(), req.Page)
	if err != nil {
		if errors.Is(err, storefront.ErrPageNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Page not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to open session")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to open session",
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Session opened",
		Data: map[string]interface{}{
			"token":      token,
			"session_id": sess.ID,
			"page":       newPageView(sess.Page),
			"cart":       newCartView(sess),
		},
	})
}

// GetCart handles GET /api/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newCartView(sess),
	})
}

// AddToCart handles POST /api/cart/items
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "product_id is required",
		})
		return
	}

	// only products listed on the session's page can be added
	product, err := sess.Page.Scope(h.service.Catalog()).Product(req.ProductID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}

	sess.Cart.Add(r.Context(), product)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product added to cart",
		Data:    newCartView(sess),
	})
}

// UpdateQuantity handles PATCH /api/cart/items/{key}. Unknown keys leave the
// cart unchanged.
func (h *StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	key := mux.Vars(r)["key"]

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.Delta == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   cartdomain.ErrInvalidQuantity.Error(),
		})
		return
	}

	msg := "Quantity updated"
	if _, found := sess.Cart.UpdateQuantity(r.Context(), key, req.Delta); !found {
		msg = "No matching cart line"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    newCartView(sess),
	})
}

// RemoveFromCart handles DELETE /api/cart/items/{key}
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	msg := "Product removed from cart"
	if !sess.Cart.Remove(r.Context(), mux.Vars(r)["key"]) {
		msg = "No matching cart line"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    newCartView(sess),
	})
}

// ClearCart handles DELETE /api/cart
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	sess.Cart.Clear(r.Context())

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared",
		Data:    newCartView(sess),
	})
}

// GetNotification handles GET /api/notification
func (h *StorefrontHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	n, ok := sess.Cart.Notification()
	if !ok {
		respondJSON(w, http.StatusOK, Response{Success: true})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    n,
	})
}

// TypeQuery handles PUT /api/search/query
func (h *StorefrontHandler) TypeQuery(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	sess.Search.Type(req.Query)
	respondJSON(w, http.StatusAccepted, Response{
		Success: true,
		Data:    sess.Search.State(),
	})
}

// ClearQuery handles DELETE /api/search/query
func (h *StorefrontHandler) ClearQuery(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	sess.Search.Blur()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sess.Search.State(),
	})
}

// SelectCategory handles PUT /api/search/category
func (h *StorefrontHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := sess.Search.SelectCategory(req.Category); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Unknown category",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sess.Search.State(),
	})
}

// GetSearchState handles GET /api/search/state
func (h *StorefrontHandler) GetSearchState(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sess.Search.State(),
	})
}

// SelectResult handles POST /api/search/select
func (h *StorefrontHandler) SelectResult(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "product_id is required",
		})
		return
	}

	if _, err := sess.Search.Select(r.Context(), req.ProductID, sess.Cart); err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product added to cart",
		Data: map[string]interface{}{
			"cart":   newCartView(sess),
			"search": sess.Search.State(),
		},
	})
}

// ActivateCategory handles POST /api/nav/active
func (h *StorefrontHandler) ActivateCategory(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		Category string `json:"category"`
		nav.Geometry
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "category is required",
		})
		return
	}
	if !onPage(sess.Page, req.Category) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Unknown category",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sess.Nav.Activate(req.Category, req.Geometry),
	})
}

// ObserveCategory handles POST /api/nav/observe
func (h *StorefrontHandler) ObserveCategory(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !onPage(sess.Page, req.Category) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Unknown category",
		})
		return
	}

	sess.Nav.Observe(req.Category)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]string{"active": sess.Nav.Active()},
	})
}

func (h *StorefrontHandler) RegisterHealthCheck(router *mux.Router, checks ...HealthCheck) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check.Ping(r.Context()); err != nil {
				logger.Warn(r.Context()).Err(err).Str("dependency", check.Name).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   check.Name + " unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront is healthy",
		})
	}).Methods("GET")
}

func onPage(p storefront.Page, category string) bool {
	for _, cat := range p.Categories {
		if cat.Link == category {
			return true
		}
	}
	return false
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
