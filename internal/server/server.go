package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/middleware"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *handlers.Handlers
	logger     *logrus.Entry
}

// New builds the router and the HTTP server. gatherer backs GET /metrics;
// nil uses the default Prometheus registry.
func New(h *handlers.Handlers, cfg *config.Config, gatherer prometheus.Gatherer, logger *logrus.Entry) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		logger:   logger,
	}
	s.setupRoutes(gatherer)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/orders", s.handlers.ListOrders)
		v1.POST("/orders", s.handlers.CreateOrder)
		v1.POST("/orders/totals", s.handlers.PreviewTotals)
		v1.GET("/orders/:id", s.handlers.GetOrder)
		v1.PUT("/orders/:id", s.handlers.UpdateOrder)
		v1.DELETE("/orders/:id", s.handlers.DeleteOrder)

		v1.GET("/customers", s.handlers.ListCustomers)
		v1.POST("/customers", s.handlers.CreateCustomer)
		v1.POST("/customers/guest", s.handlers.CreateGuestCustomer)

		v1.GET("/products", s.handlers.ListProducts)
		v1.POST("/products", s.handlers.CreateProduct)
		v1.GET("/products/:id", s.handlers.GetProduct)
		v1.PUT("/products/:id", s.handlers.UpdateProduct)
		v1.DELETE("/products/:id", s.handlers.DeleteProduct)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
