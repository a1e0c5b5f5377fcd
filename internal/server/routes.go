package server

import (
	"fmt"
	"net/http"

	"anoa.com/productcatalog/internal/mediator"
	categoryHttp "anoa.com/productcatalog/internal/modules/category/delivery/http"
	categoryRequest "anoa.com/productcatalog/internal/modules/category/request"
	productHttp "anoa.com/productcatalog/internal/modules/product/delivery/http"
	productRequest "anoa.com/productcatalog/internal/modules/product/request"
	searchRequest "anoa.com/productcatalog/internal/modules/search/request"
	"github.com/gin-gonic/gin"
)

// Route is one API endpoint. The same table registers the routes and feeds
// /api/docs.
type Route struct {
	Method   string
	Path     string
	Kind     mediator.Kind
	Auth     bool
	Throttle bool
	Handler  gin.HandlerFunc
}

// RouteDoc is the /api/docs entry for a Route.
type RouteDoc struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Request   string `json:"request"`
	Auth      bool   `json:"auth"`
	Throttled bool   `json:"throttled"`
}

// checkRoutes fails when a route sends a request kind nothing handles.
func checkRoutes(routes []Route, registered []mediator.Kind) error {
	known := make(map[mediator.Kind]bool, len(registered))
	for _, k := range registered {
		known[k] = true
	}
	for _, r := range routes {
		if !known[r.Kind] {
			return fmt.Errorf("%s %s sends %q: %w", r.Method, r.Path, r.Kind, mediator.ErrNoHandler)
		}
	}
	return nil
}

func catalogRoutes(categories *categoryHttp.CategoryHandler, products *productHttp.ProductHandler) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/categories", Kind: categoryRequest.KindList, Handler: categories.GetCategories},
		{Method: http.MethodGet, Path: "/api/categories/:id", Kind: categoryRequest.KindGet, Handler: categories.GetCategory},
		{Method: http.MethodGet, Path: "/api/categories/:id/products", Kind: productRequest.KindByCategory, Handler: categories.GetCategoryProducts},
		{Method: http.MethodPost, Path: "/api/categories", Kind: categoryRequest.KindCreate, Auth: true, Throttle: true, Handler: categories.CreateCategory},
		{Method: http.MethodPut, Path: "/api/categories/:id", Kind: categoryRequest.KindUpdate, Auth: true, Throttle: true, Handler: categories.UpdateCategory},
		{Method: http.MethodDelete, Path: "/api/categories/:id", Kind: categoryRequest.KindDelete, Auth: true, Throttle: true, Handler: categories.DeleteCategory},

		{Method: http.MethodGet, Path: "/api/products", Kind: productRequest.KindList, Handler: products.GetProducts},
		{Method: http.MethodGet, Path: "/api/products/search", Kind: searchRequest.KindSearch, Handler: products.SearchProducts},
		{Method: http.MethodGet, Path: "/api/products/:id", Kind: productRequest.KindGet, Handler: products.GetProduct},
		{Method: http.MethodPost, Path: "/api/products", Kind: productRequest.KindCreate, Throttle: true, Handler: products.CreateProduct},
		{Method: http.MethodPut, Path: "/api/products/:id", Kind: productRequest.KindUpdate, Throttle: true, Handler: products.UpdateProduct},
		{Method: http.MethodDelete, Path: "/api/products/:id", Kind: productRequest.KindDelete, Throttle: true, Handler: products.DeleteProduct},
	}
}

// register mounts every route. Auth runs before the throttle.
func (s *Server) register(router gin.IRoutes, auth, throttle gin.HandlerFunc) {
	for _, r := range s.routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		if r.Auth {
			chain = append(chain, auth)
		}
		if r.Throttle {
			chain = append(chain, throttle)
		}
		chain = append(chain, r.Handler)
		router.Handle(r.Method, r.Path, chain...)
	}
}

func (s *Server) docs(c *gin.Context) {
	out := make([]RouteDoc, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, RouteDoc{
			Method:    r.Method,
			Path:      r.Path,
			Request:   string(r.Kind),
			Auth:      r.Auth,
			Throttled: r.Throttle,
		})
	}
	c.JSON(http.StatusOK, out)
}
