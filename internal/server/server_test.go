package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/productcatalog/internal/config"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/testutil/memstore"
	"anoa.com/productcatalog/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const secret = "server-test-secret"

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) error {
	return &ratelimiter.RateLimitError{Message: "too many write requests", RetryAfter: 30 * time.Second}
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         "test",
		AllowedOrigins: "http://localhost:3000",
		JWTSecret:      secret,
		MaxPageSize:    100,
	}
}

func newTestServer(t *testing.T, deps Dependencies) (*Server, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	deps.Categories = store.Categories()
	deps.Products = store.Products()
	if deps.Log == nil {
		deps.Log, _ = logtest.NewNullLogger()
	}

	s, err := NewServer(testConfig(), deps)
	require.NoError(t, err)
	return s, store
}

func bearer(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "catalog-admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func serve(s *Server, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestCategoryWritesRequireAuth(t *testing.T) {
	s, store := newTestServer(t, Dependencies{})
	store.SeedCategory("Electronics", "Devices and gadgets")
	store.SeedCategory("Books", "Printed and digital books")

	body := `{"name":"Clothing","description":"Apparel and accessories"}`

	w := serve(s, http.MethodPost, "/api/categories", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(s, http.MethodPost, "/api/categories", body, bearer(t))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(s, http.MethodGet, "/api/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var categories []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Len(t, categories, 3)

	w = serve(s, http.MethodDelete, "/api/categories/1", "", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductWritesArePublic(t *testing.T) {
	s, store := newTestServer(t, Dependencies{})
	catID := store.SeedCategory("Electronics", "Devices and gadgets")

	body := `{"name":"Laptop","price":1200,"description":"A high-performance laptop","categoryId":` + jsonNumber(catID) + `}`
	w := serve(s, http.MethodPost, "/api/products", body, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWritesAreThrottled(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{Limiter: denyAll{}})

	w := serve(s, http.MethodPost, "/api/products", `{}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	w = serve(s, http.MethodPost, "/api/categories", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "auth is checked before the throttle")

	w = serve(s, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchDisabledWithoutIndex(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	w := serve(s, http.MethodGet, "/api/products/search?q=laptop", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDocsListsRouteTable(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	w := serve(s, http.MethodGet, "/api/docs", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var docs []RouteDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, len(s.routes))
	assert.Contains(t, docs, RouteDoc{
		Method:    http.MethodPut,
		Path:      "/api/categories/:id",
		Request:   "categories.update",
		Auth:      true,
		Throttled: true,
	})
	assert.Contains(t, docs, RouteDoc{
		Method:  http.MethodGet,
		Path:    "/api/products/search",
		Request: "products.search",
	})
}

func TestCheckRoutes(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})
	var kinds []mediator.Kind
	for _, r := range s.routes {
		kinds = append(kinds, r.Kind)
	}
	assert.NoError(t, checkRoutes(s.routes, kinds))

	routes := append(s.routes, Route{Method: http.MethodGet, Path: "/api/orders", Kind: "orders.list"})
	err := checkRoutes(routes, kinds)
	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrNoHandler)
	assert.Contains(t, err.Error(), "GET /api/orders")
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{DB: pinger{}})
	w := serve(s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	s, _ = newTestServer(t, Dependencies{DB: pinger{err: errors.New("connection refused")}})
	w = serve(s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
