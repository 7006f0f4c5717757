// Package query filters, sorts and paginates order lists and encodes the
// list state as flat string parameters for deep links.
package query

import (
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Defaults applied to unset query fields.
const (
	DefaultSortBy   = "orderDate"
	DefaultSortDir  = Desc
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Query is the state of an order list view. Zero values mean "unset".
// A negative Page is out of range.
type Query struct {
	Search   string    `json:"search,omitempty"`
	Status   string    `json:"status,omitempty"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	SortBy   string    `json:"sortBy,omitempty"`
	SortDir  Direction `json:"sortDir,omitempty"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"pageSize,omitempty"`
}

// Result is one page of a filtered, sorted order list.
type Result struct {
	Page         []models.Order `json:"page"`
	TotalPages   int            `json:"totalPages"`
	TotalMatches int            `json:"totalMatches"`
}

// WithDefaults returns q with every unset field replaced by its default.
func (q Query) WithDefaults() Query {
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortDir != Asc && q.SortDir != Desc {
		q.SortDir = DefaultSortDir
	}
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Validate rejects a page size that can never be satisfied. Negative pages
// are valid and select nothing.
func (q Query) Validate() error {
	if q.PageSize < 0 {
		return apperrors.NewValidationError("pageSize", "page size must be positive")
	}
	return nil
}
