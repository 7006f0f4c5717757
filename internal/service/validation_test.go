package service

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

func completeDraft() *models.OrderDraft {
	return &models.OrderDraft{
		OrderNo:    "SO-2024-101",
		OrderDate:  "2024-01-10",
		CustomerID: "c1",
		Status:     models.OrderStatusPending,
		Items:      []models.OrderItemDraft{{Product: "Mouse", Qty: 1, Price: 50}},
	}
}

func TestValidateOrderDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *models.OrderDraft)
		field  string
	}{
		{"valid", func(d *models.OrderDraft) {}, ""},
		{"missing customer", func(d *models.OrderDraft) { d.CustomerID = " " }, "customerId"},
		{"missing date", func(d *models.OrderDraft) { d.OrderDate = "" }, "orderDate"},
		{"bad date", func(d *models.OrderDraft) { d.OrderDate = "10/01/2024" }, "orderDate"},
		{"rfc3339 date", func(d *models.OrderDraft) { d.OrderDate = "2024-01-10T08:00:00Z" }, ""},
		{"unknown status", func(d *models.OrderDraft) { d.Status = "Shipped" }, "status"},
		{"no items", func(d *models.OrderDraft) { d.Items = nil }, "items"},
		{"blank product", func(d *models.OrderDraft) { d.Items[0].Product = "" }, "items[0]"},
		{"zero qty", func(d *models.OrderDraft) { d.Items[0].Qty = 0 }, "items[0]"},
		{"negative price", func(d *models.OrderDraft) { d.Items[0].Price = -1 }, "items[0]"},
		{"nan price", func(d *models.OrderDraft) { d.Items[0].Price = math.NaN() }, "items[0]"},
		{"free item", func(d *models.OrderDraft) { d.Items[0].Price = 0 }, ""},
		{"negative vat", func(d *models.OrderDraft) { d.VAT = -5 }, "vat"},
		{"negative discount", func(d *models.OrderDraft) { d.Discount = -1 }, "discount"},
		{"discount over 100", func(d *models.OrderDraft) { d.Discount = 101 }, "discount"},
		{"full discount", func(d *models.OrderDraft) { d.Discount = 100 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			tt.mutate(d)

			err := ValidateOrderDraft(d)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateCustomerName(t *testing.T) {
	assert.NoError(t, ValidateCustomerName("Alice"))
	assert.Error(t, ValidateCustomerName("   "))
	assert.Error(t, ValidateCustomerName(strings.Repeat("x", maxCustomerNameLength+1)))
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		field   string
	}{
		{"valid", models.Product{Name: "Mouse", Price: 50}, ""},
		{"free", models.Product{Name: "Sticker", Price: 0}, ""},
		{"blank name", models.Product{Name: "  ", Price: 5}, "name"},
		{"long name", models.Product{Name: strings.Repeat("x", maxProductNameLength+1), Price: 5}, "name"},
		{"negative price", models.Product{Name: "Mouse", Price: -1}, "price"},
		{"infinite price", models.Product{Name: "Mouse", Price: math.Inf(1)}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(&tt.product)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
