package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// ListParams are the optional server-side paging and search parameters of
// the orders resource (json-server's _page, _limit and q).
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("_page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("_limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	return v
}

// OrderClient provides access to the remote orders resource.
type OrderClient interface {
	List(ctx context.Context, params ListParams) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, id string, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

var _ OrderClient = (*HTTPOrderClient)(nil)

// HTTPOrderClient implements OrderClient over HTTP.
type HTTPOrderClient struct {
	rest restClient
}

// NewHTTPOrderClient creates a client for <base>/orders.
func NewHTTPOrderClient(cfg config.ServiceConfig, logger *logrus.Entry, m *metrics.Metrics) *HTTPOrderClient {
	return &HTTPOrderClient{rest: newRESTClient(cfg, "orders", logger, m)}
}

// List fetches orders. Zero params fetch the whole collection.
func (c *HTTPOrderClient) List(ctx context.Context, params ListParams) ([]models.Order, error) {
	var orders []models.Order
	if err := c.rest.do(ctx, "list", http.MethodGet, "", params.values(), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches one order by id.
func (c *HTTPOrderClient) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.rest.do(ctx, "get", http.MethodGet, id, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Create posts a new order; the API assigns its id.
func (c *HTTPOrderClient) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	payload := *order
	payload.ID = ""

	var created models.Order
	if err := c.rest.do(ctx, "create", http.MethodPost, "", nil, &payload, &created); err != nil {
		return nil, err
	}

	c.rest.logger.WithFields(logrus.Fields{
		"order_id": created.ID,
		"order_no": created.OrderNo,
	}).Info("Order created upstream")

	return &created, nil
}

// Update replaces the order stored under id.
func (c *HTTPOrderClient) Update(ctx context.Context, id string, order *models.Order) (*models.Order, error) {
	payload := *order
	payload.ID = id

	var updated models.Order
	if err := c.rest.do(ctx, "update", http.MethodPut, id, nil, &payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the order stored under id.
func (c *HTTPOrderClient) Delete(ctx context.Context, id string) error {
	return c.rest.do(ctx, "delete", http.MethodDelete, id, nil, nil, nil)
}
