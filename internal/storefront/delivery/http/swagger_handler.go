package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListPages godoc
// @Summary List pages
// @Description Pages of the shop with their category bar and search delay
// @Tags Pages
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/pages [get]
func (h *StorefrontHandler) ListPagesDoc() {}

// GetPage godoc
// @Summary Get page
// @Tags Pages
// @Produce json
// @Param page path string true "Page key (home, assemblies, labels)"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/pages/{page} [get]
func (h *StorefrontHandler) GetPageDoc() {}

// GetCatalog godoc
// @Summary Get catalog
// @Description All categories and their products
// @Tags Catalog
// @Produce json
// @Success 200 {object} object{success=bool,data=object{categories=array,products=object}}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/catalog [get]
func (h *StorefrontHandler) GetCatalogDoc() {}

// ListProducts godoc
// @Summary List products of a category
// @Tags Catalog
// @Produce json
// @Param category path string true "Category key"
// @Success 200 {object} object{success=bool,data=object{category=string,products=array,total=int}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/catalog/{category} [get]
func (h *StorefrontHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID, e.g. printers-1"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *StorefrontHandler) GetProductDoc() {}

// Search godoc
// @Summary Search products
// @Description Case-insensitive substring match on product names, without debounce
// @Tags Search
// @Produce json
// @Param q query string false "Query"
// @Param category query string false "Restrict to one category"
// @Param page query string false "Restrict to the categories of a page"
// @Success 200 {object} object{success=bool,data=object{results=object,total=int,empty=bool}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/search [get]
func (h *StorefrontHandler) SearchDoc() {}

// OpenSession godoc
// @Summary Open a shopper session
// @Description Issues a session token bound to a page; the cart of the session is kept in storage
// @Tags Session
// @Accept json
// @Produce json
// @Param request body object{page=string} false "Page key, home by default"
// @Success 201 {object} object{success=bool,message=string,data=object{token=string,session_id=string,page=object,cart=object}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/session [post]
func (h *StorefrontHandler) OpenSessionDoc() {}

// GetCart godoc
// @Summary Get cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{items=array,total_price=int,total_count=int,notification=object}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/cart [get]
func (h *StorefrontHandler) GetCartDoc() {}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/cart [delete]
func (h *StorefrontHandler) ClearCartDoc() {}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Adds one unit of a product listed on the session's page; an existing line is incremented
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=string} true "Product"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/items [post]
func (h *StorefrontHandler) AddToCartDoc() {}

// UpdateQuantity godoc
// @Summary Change the quantity of a cart line
// @Description A line reaching zero is removed; unknown keys are ignored
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Line key (product id, or name for legacy lines)"
// @Param request body object{delta=int} true "Quantity change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/cart/items/{key} [patch]
func (h *StorefrontHandler) UpdateQuantityDoc() {}

// RemoveFromCart godoc
// @Summary Remove a cart line
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param key path string true "Line key"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Router /api/cart/items/{key} [delete]
func (h *StorefrontHandler) RemoveFromCartDoc() {}

// GetNotification godoc
// @Summary Get the visible cart notification
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/notification [get]
func (h *StorefrontHandler) GetNotificationDoc() {}

// TypeQuery godoc
// @Summary Type in the search box
// @Description The filter pass runs after the page's debounce delay
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{query=string} true "Query"
// @Success 202 {object} object{success=bool,data=object}
// @Router /api/search/query [put]
func (h *StorefrontHandler) TypeQueryDoc() {}

// ClearQuery godoc
// @Summary Clear the search box
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/search/query [delete]
func (h *StorefrontHandler) ClearQueryDoc() {}

// SelectCategory godoc
// @Summary Scope the search to a category
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{category=string} true "Category key, empty for all"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/search/category [put]
func (h *StorefrontHandler) SelectCategoryDoc() {}

// GetSearchState godoc
// @Summary Get the search box state
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{query=string,searching=bool,results=object,empty=bool}}
// @Router /api/search/state [get]
func (h *StorefrontHandler) GetSearchStateDoc() {}

// SelectResult godoc
// @Summary Pick a search result
// @Description Adds the product to the cart and clears the query
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=string} true "Product"
// @Success 200 {object} object{success=bool,message=string,data=object{cart=object,search=object}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/search/select [post]
func (h *StorefrontHandler) SelectResultDoc() {}

// ActivateCategory godoc
// @Summary Click a category in the category bar
// @Description Returns the scroll target, offset by the header height (60 when unknown) plus 20
// @Tags Navigation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{category=string,element_top=number,page_y_offset=number,header_height=number} true "Geometry"
// @Success 200 {object} object{success=bool,data=object{section=string,top=number,scroll=bool}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/nav/active [post]
func (h *StorefrontHandler) ActivateCategoryDoc() {}

// ObserveCategory godoc
// @Summary Report the section scrolled into view
// @Tags Navigation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{category=string} true "Category"
// @Success 200 {object} object{success=bool,data=object{active=string}}
// @Router /api/nav/observe [post]
func (h *StorefrontHandler) ObserveCategoryDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and storage connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *StorefrontHandler) HealthCheckDoc() {}
