package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/clients"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/events"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/repository"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/server"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithField("error", err.Error()).Fatal("Failed to load config")
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	logger := logging.New("main")

	logger.WithFields(logrus.Fields{
		"port":        cfg.Server.Port,
		"instance_id": cfg.InstanceID,
		"api_mode":    cfg.API.Mode,
		"caching":     cfg.Features.EnableListCaching,
		"cache":       cfg.Redis.Backend,
	}).Info("Starting orders-admin")

	m := metrics.New()

	orderClient, customerClient, productClient := newClients(cfg, m)

	checks := map[string]handlers.ReadinessCheck{}
	orderCache, err := repository.NewOrderCache(cfg, logging.New("order-cache"))
	if err != nil {
		logger.WithField("error", err.Error()).Fatal("Failed to create order cache")
	}
	if redisCache, ok := orderCache.(*repository.RedisOrderCache); ok {
		defer redisCache.Close()
		checks["redis"] = redisCache.Ping
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publisher events.Publisher = events.NopPublisher{}
	var consumer *events.KafkaConsumer
	if cfg.Features.EnableOrderEvents {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, cfg.InstanceID, logging.New("event-publisher"), m)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		if orderCache != nil {
			consumer = events.NewKafkaConsumer(cfg.Kafka, cfg.InstanceID, orderCache, logging.New("event-consumer"))
			go func() {
				if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.WithField("error", err.Error()).Error("Event consumer failed")
				}
			}()
		}
	}

	orderService := service.NewOrderService(orderClient, customerClient, orderCache, publisher, cfg, m)
	customerService := service.NewCustomerService(customerClient)
	productService := service.NewProductService(productClient)

	h := handlers.NewHandlers(orderService, customerService, productService, cfg)
	for name, check := range checks {
		h.AddReadinessCheck(name, check)
	}

	srv := server.New(h, cfg, nil, logging.New("http"))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithField("error", err.Error()).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithField("error", err.Error()).Warn("Event consumer did not close cleanly")
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithField("error", err.Error()).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newClients returns the remote API clients, or in-memory ones when the API
// mode is "memory".
func newClients(cfg *config.Config, m *metrics.Metrics) (clients.OrderClient, clients.CustomerClient, clients.ProductClient) {
	if cfg.API.Mode == config.ModeMemory {
		logging.New("main").Warn("Running with in-memory orders API")
		return clients.NewMockOrderClient(), clients.NewMockCustomerClient(), clients.NewMockProductClient()
	}

	logger := logging.New("orders-api-client")
	return clients.NewHTTPOrderClient(cfg.API, logger, m),
		clients.NewHTTPCustomerClient(cfg.API, logger, m),
		clients.NewHTTPProductClient(cfg.API, logger, m)
}
