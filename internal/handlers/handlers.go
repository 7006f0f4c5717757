package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/service"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handlers holds all HTTP handlers for the orders admin service.
type Handlers struct {
	orderService    *service.OrderService
	customerService *service.CustomerService
	productService  *service.ProductService
	config          *config.Config
	logger          *logrus.Entry
	checks          map[string]ReadinessCheck
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	orderService *service.OrderService,
	customerService *service.CustomerService,
	productService *service.ProductService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		orderService:    orderService,
		customerService: customerService,
		productService:  productService,
		config:          cfg,
		logger:          logging.New("handlers"),
		checks:          make(map[string]ReadinessCheck),
	}
}

// AddReadinessCheck registers a dependency probed by GET /ready.
func (h *Handlers) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}
