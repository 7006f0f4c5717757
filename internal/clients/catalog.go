package clients

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// CustomerClient provides access to the remote customers resource.
type CustomerClient interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, name string) (*models.Customer, error)
}

// ProductClient provides access to the remote products resource.
type ProductClient interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ CustomerClient = (*HTTPCustomerClient)(nil)
	_ ProductClient  = (*HTTPProductClient)(nil)
)

// HTTPCustomerClient implements CustomerClient over HTTP.
type HTTPCustomerClient struct {
	rest restClient
}

// NewHTTPCustomerClient creates a client for <base>/customers.
func NewHTTPCustomerClient(cfg config.ServiceConfig, logger *logrus.Entry, m *metrics.Metrics) *HTTPCustomerClient {
	return &HTTPCustomerClient{rest: newRESTClient(cfg, "customers", logger, m)}
}

func (c *HTTPCustomerClient) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.rest.do(ctx, "list", http.MethodGet, "", nil, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *HTTPCustomerClient) Create(ctx context.Context, name string) (*models.Customer, error) {
	var created models.Customer
	payload := struct {
		Name string `json:"name"`
	}{Name: name}

	if err := c.rest.do(ctx, "create", http.MethodPost, "", nil, &payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// HTTPProductClient implements ProductClient over HTTP.
type HTTPProductClient struct {
	rest restClient
}

// NewHTTPProductClient creates a client for <base>/products.
func NewHTTPProductClient(cfg config.ServiceConfig, logger *logrus.Entry, m *metrics.Metrics) *HTTPProductClient {
	return &HTTPProductClient{rest: newRESTClient(cfg, "products", logger, m)}
}

func (c *HTTPProductClient) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.rest.do(ctx, "list", http.MethodGet, "", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPProductClient) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.rest.do(ctx, "get", http.MethodGet, id, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPProductClient) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	payload := *product
	payload.ID = ""

	var created models.Product
	if err := c.rest.do(ctx, "create", http.MethodPost, "", nil, &payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPProductClient) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	payload := *product
	payload.ID = id

	var updated models.Product
	if err := c.rest.do(ctx, "update", http.MethodPut, id, nil, &payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPProductClient) Delete(ctx context.Context, id string) error {
	return c.rest.do(ctx, "delete", http.MethodDelete, id, nil, nil, nil)
}
