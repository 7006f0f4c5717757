package service

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/clients"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/events"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/pricing"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/query"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/repository"
)

// OrderService handles order business logic.
type OrderService struct {
	orderClient    clients.OrderClient
	customerClient clients.CustomerClient
	orderCache     repository.OrderCache
	eventPublisher events.Publisher
	config         *config.Config
	metrics        *metrics.Metrics
	logger         *logrus.Entry

	now        func() time.Time
	orderNoSeq func() int
}

// NewOrderService creates a new order service. orderCache may be nil, which
// disables snapshot caching regardless of the feature flag.
func NewOrderService(
	orderClient clients.OrderClient,
	customerClient clients.CustomerClient,
	orderCache repository.OrderCache,
	eventPublisher events.Publisher,
	cfg *config.Config,
	m *metrics.Metrics,
) *OrderService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &OrderService{
		orderClient:    orderClient,
		customerClient: customerClient,
		orderCache:     orderCache,
		eventPublisher: eventPublisher,
		config:         cfg,
		metrics:        m,
		logger:         logging.New("order-service"),
		now:            time.Now,
		orderNoSeq:     func() int { return 100 + rand.Intn(900) },
	}
}

func (s *OrderService) cachingEnabled() bool {
	return s.orderCache != nil && s.config.Features.EnableListCaching
}

// ListOrders returns one page of the order list described by q.
func (s *OrderService) ListOrders(ctx context.Context, q query.Query) (query.Result, error) {
	s.logger.WithFields(logrus.Fields{
		"search":    q.Search,
		"status":    q.Status,
		"sort_by":   q.SortBy,
		"page":      q.Page,
		"page_size": q.PageSize,
	}).Debug("Listing orders")

	if limit := s.config.Query.MaxPageSize; limit > 0 && q.PageSize > limit {
		return query.Result{}, apperrors.NewValidationError("pageSize", fmt.Sprintf("page size cannot exceed %d", limit))
	}

	sortBy := metricSortLabel(q.WithDefaults().SortBy)

	orders, err := s.snapshot(ctx, q.Search)
	if err != nil {
		s.metrics.ObserveListQuery(sortBy, 0, err)
		return query.Result{}, err
	}

	result, err := query.Run(orders, q)
	s.metrics.ObserveListQuery(sortBy, result.TotalMatches, err)
	return result, err
}

// metricSortLabel keeps the sort_by label bounded to registered fields.
func metricSortLabel(field string) string {
	field = strings.TrimSpace(field)
	if slices.Contains(query.SortFields(), field) {
		return field
	}
	return "other"
}

// snapshot returns the orders a list query runs over. With server-side
// search the API prefilters by search; the local filter then narrows the
// result to the exact match set.
func (s *OrderService) snapshot(ctx context.Context, search string) ([]models.Order, error) {
	search = strings.TrimSpace(search)
	if s.config.Features.EnableServerSideSearch && search != "" {
		return s.orderClient.List(ctx, clients.ListParams{Search: search})
	}

	if s.cachingEnabled() {
		orders, ok, err := s.orderCache.GetAll(ctx)
		if err != nil {
			s.logger.WithField("error", err.Error()).Warn("Order list cache read failed")
		}
		if ok {
			s.metrics.CacheHit()
			return orders, nil
		}
		s.metrics.CacheMiss()
	}

	orders, err := s.orderClient.List(ctx, clients.ListParams{})
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to fetch orders")
		return nil, err
	}

	if s.cachingEnabled() {
		if err := s.orderCache.SetAll(ctx, orders); err != nil {
			// Log but don't fail
			s.logger.WithField("error", err.Error()).Warn("Failed to cache order list")
		}
	}
	return orders, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.logger.WithField("order_id", id).Debug("Getting order")

	if s.cachingEnabled() {
		if order, err := s.orderCache.Get(ctx, id); err == nil && order != nil {
			s.metrics.CacheHit()
			return order, nil
		}
		s.metrics.CacheMiss()
	}

	order, err := s.orderClient.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cachingEnabled() {
		_ = s.orderCache.Set(ctx, order)
	}
	return order, nil
}

// CreateOrder validates the draft, fills in defaults, recomputes totals and
// stores the order upstream.
func (s *OrderService) CreateOrder(ctx context.Context, draft *models.OrderDraft) (*models.Order, error) {
	d := *draft
	now := s.now()
	if strings.TrimSpace(d.OrderNo) == "" {
		d.OrderNo = fmt.Sprintf("SO-%d-%d", now.Year(), s.orderNoSeq())
	}
	if strings.TrimSpace(d.OrderDate) == "" {
		d.OrderDate = now.Format("2006-01-02")
	}
	if d.Status == "" {
		d.Status = models.OrderStatusPending
	}

	s.logger.WithFields(logrus.Fields{
		"order_no":    d.OrderNo,
		"customer_id": d.CustomerID,
		"item_count":  len(d.Items),
	}).Info("Creating order")

	order, err := s.buildOrder(ctx, &d)
	if err != nil {
		return nil, err
	}

	created, err := s.orderClient.Create(ctx, order)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_no": order.OrderNo,
			"error":    err.Error(),
		}).Error("Failed to create order")
		return nil, err
	}

	s.invalidate(ctx, "")
	if err := s.eventPublisher.PublishOrderCreated(ctx, created); err != nil {
		// Log but don't fail
		s.logger.WithFields(logrus.Fields{
			"order_id": created.ID,
			"error":    err.Error(),
		}).Error("Failed to publish order created event")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": created.ID,
		"total":    created.Total,
	}).Info("Order created successfully")

	return created, nil
}

// UpdateOrder replaces the order stored under id. Fields the draft leaves
// empty (order number, order date, status) keep their stored values.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, draft *models.OrderDraft) (*models.Order, error) {
	s.logger.WithField("order_id", id).Info("Updating order")

	current, err := s.orderClient.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	d := *draft
	if strings.TrimSpace(d.OrderNo) == "" {
		d.OrderNo = current.OrderNo
	}
	if strings.TrimSpace(d.OrderDate) == "" {
		d.OrderDate = current.OrderDate
	}
	if d.Status == "" {
		d.Status = current.Status
	}

	order, err := s.buildOrder(ctx, &d)
	if err != nil {
		return nil, err
	}

	updated, err := s.orderClient.Update(ctx, id, order)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": id,
			"error":    err.Error(),
		}).Error("Failed to update order")
		return nil, err
	}

	s.invalidate(ctx, id)
	if err := s.eventPublisher.PublishOrderUpdated(ctx, updated); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": id,
			"error":    err.Error(),
		}).Error("Failed to publish order updated event")
	}

	return updated, nil
}

// DeleteOrder removes the order stored under id.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	s.logger.WithField("order_id", id).Info("Deleting order")

	if err := s.orderClient.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	if err := s.eventPublisher.PublishOrderDeleted(ctx, id); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": id,
			"error":    err.Error(),
		}).Error("Failed to publish order deleted event")
	}
	return nil
}

// PreviewTotals prices a draft without storing anything.
func (s *OrderService) PreviewTotals(items []pricing.LineInput, vatPct, discountPct float64) pricing.Totals {
	return pricing.ComputeTotals(items, vatPct, discountPct)
}

// buildOrder validates a defaulted draft and turns it into an order with
// the customer embedded and every total recomputed.
func (s *OrderService) buildOrder(ctx context.Context, d *models.OrderDraft) (*models.Order, error) {
	if err := ValidateOrderDraft(d); err != nil {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, d.CustomerID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:   strings.TrimSpace(d.OrderNo),
		OrderDate: strings.TrimSpace(d.OrderDate),
		Customer:  *customer,
		Status:    d.Status,
		Items:     make([]models.OrderItem, len(d.Items)),
		VAT:       d.VAT,
		Discount:  d.Discount,
	}
	for i, item := range d.Items {
		order.Items[i] = models.OrderItem{
			Product: strings.TrimSpace(item.Product),
			Qty:     item.Qty,
			Price:   item.Price,
		}
	}
	pricing.ApplyTotals(order)

	return order, nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customers, err := s.customerClient.List(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"customer_id": id,
			"error":       err.Error(),
		}).Error("Failed to load customers")
		return nil, err
	}

	for _, c := range customers {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, apperrors.NewValidationError("customerId", "customer not found")
}

// invalidate drops the cached order list and, when id is set, the cached
// copy of that order.
func (s *OrderService) invalidate(ctx context.Context, id string) {
	if s.orderCache == nil {
		return
	}
	if err := s.orderCache.InvalidateAll(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to invalidate order list cache")
	}
	if id != "" {
		if err := s.orderCache.Delete(ctx, id); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_id": id,
				"error":    err.Error(),
			}).Warn("Failed to evict cached order")
		}
	}
}
