package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// ListCustomers handles GET /api/v1/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// CreateCustomer handles POST /api/v1/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// CreateGuestCustomer handles POST /api/v1/customers/guest
func (h *Handlers) CreateGuestCustomer(c *gin.Context) {
	customer, err := h.customerService.CreateGuest(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// ListProducts handles GET /api/v1/products
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.badRequest(c, err)
		return
	}

	created, err := h.productService.Create(c.Request.Context(), &product)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/v1/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.badRequest(c, err)
		return
	}

	updated, err := h.productService.Update(c.Request.Context(), c.Param("id"), &product)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
