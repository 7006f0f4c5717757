package models

// OrderStatus is the lifecycle state of a sales order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Customer is the buyer embedded in an order.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry. Orders reference products by name only.
type Product struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem is one line of an order. Total is derived from Qty and Price.
type OrderItem struct {
	Product string  `json:"product"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Total   float64 `json:"total"`
}

// Order is a sales order as stored by the remote orders API.
// ID is empty until the order has been persisted upstream.
type Order struct {
	ID        string      `json:"id,omitempty"`
	OrderNo   string      `json:"orderNo"`
	OrderDate string      `json:"orderDate"`
	Customer  Customer    `json:"customer"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	VAT       float64     `json:"vat"`
	Discount  float64     `json:"discount"`
	Total     float64     `json:"total"`
}

// OrderDraft is the create/update payload accepted from callers.
// It carries no derived fields.
type OrderDraft struct {
	OrderNo    string           `json:"orderNo,omitempty"`
	OrderDate  string           `json:"orderDate,omitempty"`
	CustomerID string           `json:"customerId"`
	Status     OrderStatus      `json:"status,omitempty"`
	Items      []OrderItemDraft `json:"items"`
	VAT        float64          `json:"vat"`
	Discount   float64          `json:"discount"`
}

// OrderItemDraft is an order line as entered by the operator.
type OrderItemDraft struct {
	Product string  `json:"product"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
}
