package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/pricing"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/query"
)

// ListOrdersResponse is one page of the order list plus the list state.
// Query holds only the non-default parameters, ready for a deep link.
type ListOrdersResponse struct {
	Orders       []models.Order    `json:"orders"`
	TotalMatches int               `json:"totalMatches"`
	TotalPages   int               `json:"totalPages"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
	Query        map[string]string `json:"query"`
}

// TotalsRequest is the body of POST /api/v1/orders/totals.
type TotalsRequest struct {
	Items    []pricing.LineInput `json:"items"`
	VAT      float64             `json:"vat"`
	Discount float64             `json:"discount"`
}

// ListOrders handles GET /api/v1/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	q, err := query.FromValues(c.Request.URL.Query())
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListOrdersResponse{
		Orders:       result.Page,
		TotalMatches: result.TotalMatches,
		TotalPages:   result.TotalPages,
		Page:         q.Page,
		PageSize:     q.PageSize,
		Query:        query.Serialize(q),
	})
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &draft)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (h *Handlers) UpdateOrder(c *gin.Context) {
	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), &draft)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *Handlers) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PreviewTotals handles POST /api/v1/orders/totals
func (h *Handlers) PreviewTotals(c *gin.Context) {
	var req TotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.orderService.PreviewTotals(req.Items, req.VAT, req.Discount))
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.WithFields(logrus.Fields{
		"path":  c.FullPath(),
		"error": err.Error(),
	}).Debug("Failed to bind request")
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func (h *Handlers) handleError(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if validationErr, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	if upstreamErr, ok := apperrors.AsUpstream(err); ok {
		h.logger.WithFields(logrus.Fields{
			"service":     upstreamErr.Service,
			"status_code": upstreamErr.StatusCode,
			"request_id":  middleware.RequestIDFrom(c.Request.Context()),
		}).Warn("Upstream error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service error"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"error":      err.Error(),
		"request_id": middleware.RequestIDFrom(c.Request.Context()),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
