package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/clients"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// DefaultCatalog is offered when the products resource is empty.
var DefaultCatalog = []models.Product{
	{Name: "Laptop", Price: 800},
	{Name: "Mouse", Price: 50},
	{Name: "Keyboard", Price: 100},
	{Name: "Monitor", Price: 200},
	{Name: "Printer", Price: 150},
	{Name: "Headset", Price: 50},
	{Name: "USB Drive", Price: 20},
	{Name: "Webcam", Price: 80},
}

// CustomerService manages the customers orders are placed for.
type CustomerService struct {
	client clients.CustomerClient
	logger *logrus.Entry
	now    func() time.Time
}

func NewCustomerService(client clients.CustomerClient) *CustomerService {
	return &CustomerService{
		client: client,
		logger: logging.New("customer-service"),
		now:    time.Now,
	}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.client.List(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// Create adds a named customer.
func (s *CustomerService) Create(ctx context.Context, name string) (*models.Customer, error) {
	if err := ValidateCustomerName(name); err != nil {
		return nil, err
	}

	customer, err := s.client.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"name":  name,
			"error": err.Error(),
		}).Error("Failed to create customer")
		return nil, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("Customer created")
	return customer, nil
}

// CreateGuest adds a walk-in customer named Guest<unix millis>.
func (s *CustomerService) CreateGuest(ctx context.Context) (*models.Customer, error) {
	return s.Create(ctx, "Guest"+strconv.FormatInt(s.now().UnixMilli(), 10))
}

// ProductService serves the product picker of the order form.
type ProductService struct {
	client clients.ProductClient
	logger *logrus.Entry
}

func NewProductService(client clients.ProductClient) *ProductService {
	return &ProductService{
		client: client,
		logger: logging.New("product-service"),
	}
}

// List returns the upstream products, or DefaultCatalog when there are none.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.client.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		s.logger.Debug("No upstream products, using default catalog")
		return append([]models.Product(nil), DefaultCatalog...), nil
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.client.Get(ctx, id)
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := ValidateProduct(product); err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(product.Name)

	created, err := s.client.Create(ctx, product)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"name":  product.Name,
			"error": err.Error(),
		}).Error("Failed to create product")
		return nil, err
	}

	s.logger.WithField("product_id", created.ID).Info("Product created")
	return created, nil
}

// Update replaces the product stored under id.
func (s *ProductService) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	if err := ValidateProduct(product); err != nil {
		return nil, err
	}
	product.ID = id
	product.Name = strings.TrimSpace(product.Name)

	updated, err := s.client.Update(ctx, id, product)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": id,
			"error":      err.Error(),
		}).Error("Failed to update product")
		return nil, err
	}

	s.logger.WithField("product_id", id).Info("Product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": id,
			"error":      err.Error(),
		}).Error("Failed to delete product")
		return err
	}

	s.logger.WithField("product_id", id).Info("Product deleted")
	return nil
}
