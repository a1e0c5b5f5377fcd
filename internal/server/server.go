package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"anoa.com/productcatalog/internal/config"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/middleware"
	"anoa.com/productcatalog/pkg/ratelimiter"
	"anoa.com/productcatalog/pkg/validator"

	categoryHttp "anoa.com/productcatalog/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/productcatalog/internal/modules/category/repository"
	categoryRequest "anoa.com/productcatalog/internal/modules/category/request"
	categoryService "anoa.com/productcatalog/internal/modules/category/service"

	productHttp "anoa.com/productcatalog/internal/modules/product/delivery/http"
	productRepo "anoa.com/productcatalog/internal/modules/product/repository"
	productRequest "anoa.com/productcatalog/internal/modules/product/request"
	productService "anoa.com/productcatalog/internal/modules/product/service"

	searchRequest "anoa.com/productcatalog/internal/modules/search/request"
	searchService "anoa.com/productcatalog/internal/modules/search/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the stores the server is built on. SearchIndex and Limiter
// are optional.
type Dependencies struct {
	Categories  categoryRepo.CategoryRepository
	Products    productRepo.ProductRepository
	DB          Pinger
	SearchIndex searchService.Index
	Limiter     ratelimiter.Limiter
	Log         *logrus.Logger
}

type Server struct {
	engine *gin.Engine
	routes []Route
	db     Pinger
	log    *logrus.Logger
}

// NewServer wires services, mediator handlers and routes. It fails when a
// request sent by the HTTP layer has no matching handler.
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	validator.RegisterGinValidator()

	m := mediator.New(log)

	searchSvc := searchService.NewSearchService(deps.SearchIndex, log)
	searchService.Subscribe(m, searchSvc)

	categorySvc := categoryService.NewCategoryService(deps.Categories, m, cfg.MaxPageSize, log)
	productSvc := productService.NewProductService(deps.Products, deps.Categories, m, cfg.MaxPageSize, log)

	err := errors.Join(
		categoryRequest.Register(m, categorySvc),
		productRequest.Register(m, productSvc),
		searchRequest.Register(m, searchSvc),
	)
	if err != nil {
		return nil, fmt.Errorf("register request handlers: %w", err)
	}

	expectations := append(categoryHttp.Expectations(), productHttp.Expectations()...)
	if err := m.Verify(expectations...); err != nil {
		return nil, fmt.Errorf("mediator configuration: %w", err)
	}

	categoryHandler := categoryHttp.NewCategoryHandler(m)
	productHandler := productHttp.NewProductHandler(m)

	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))

	s := &Server{
		engine: router,
		routes: catalogRoutes(categoryHandler, productHandler),
		db:     deps.DB,
		log:    log,
	}
	if err := checkRoutes(s.routes, m.Kinds()); err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	throttle := middleware.Throttle(deps.Limiter, log)
	s.register(router, authMiddleware.RequireAuth(), throttle)

	router.GET("/healthz", s.health)
	router.GET("/api/docs", s.docs)

	log.WithFields(logrus.Fields{
		"routes":         len(s.routes),
		"search_enabled": searchSvc.Enabled(),
		"throttled":      deps.Limiter != nil,
	}).Info("server configured")

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.log.WithError(err).Warn("database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
