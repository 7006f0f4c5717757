package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/query"
)

const (
	maxCustomerNameLength = 100
	maxProductNameLength  = 100
)

// ValidateOrderDraft validates an order draft after defaults were applied.
func ValidateOrderDraft(d *models.OrderDraft) error {
	if strings.TrimSpace(d.CustomerID) == "" {
		return apperrors.NewValidationError("customerId", "customer is required")
	}

	if strings.TrimSpace(d.OrderDate) == "" {
		return apperrors.NewValidationError("orderDate", "order date is required")
	}
	if _, ok := query.ParseDate(d.OrderDate); !ok {
		return apperrors.NewValidationError("orderDate", "order date must be YYYY-MM-DD")
	}

	if !d.Status.Valid() {
		return apperrors.NewValidationError("status", "invalid order status")
	}

	if len(d.Items) == 0 {
		return apperrors.NewValidationError("items", "at least one item is required")
	}
	for i := range d.Items {
		if err := validateOrderItem(&d.Items[i], i); err != nil {
			return err
		}
	}

	if !finite(d.VAT) || d.VAT < 0 {
		return apperrors.NewValidationError("vat", "vat cannot be negative")
	}
	if !finite(d.Discount) || d.Discount < 0 || d.Discount > 100 {
		return apperrors.NewValidationError("discount", "discount must be between 0 and 100")
	}

	return nil
}

func validateOrderItem(item *models.OrderItemDraft, index int) error {
	field := fmt.Sprintf("items[%d]", index)

	if strings.TrimSpace(item.Product) == "" {
		return apperrors.NewValidationError(field, "product is required")
	}

	if item.Qty < 1 {
		return apperrors.NewValidationError(field, "quantity must be at least 1")
	}

	if !finite(item.Price) || item.Price < 0 {
		return apperrors.NewValidationError(field, "price cannot be negative")
	}

	return nil
}

// ValidateCustomerName validates the name of a new customer.
func ValidateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("name", "customer name is required")
	}
	if len(name) > maxCustomerNameLength {
		return apperrors.NewValidationError("name", fmt.Sprintf("customer name too long (max %d characters)", maxCustomerNameLength))
	}
	return nil
}

// ValidateProduct validates a product before it is created or updated.
func ValidateProduct(p *models.Product) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return apperrors.NewValidationError("name", "product name is required")
	}
	if len(name) > maxProductNameLength {
		return apperrors.NewValidationError("name", fmt.Sprintf("product name too long (max %d characters)", maxProductNameLength))
	}
	if !finite(p.Price) || p.Price < 0 {
		return apperrors.NewValidationError("price", "price cannot be negative")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
