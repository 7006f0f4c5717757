// Package pricing computes order line totals and grand totals.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

var hundred = decimal.NewFromInt(100)

// LineInput is the priced part of an order line.
type LineInput struct {
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// Line is a LineInput with its computed total. Qty and Price are the
// clamped values the total was computed from.
type Line struct {
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
	Total float64 `json:"total"`
}

// Totals is the pricing breakdown for an order.
type Totals struct {
	Items          []Line  `json:"items"`
	Subtotal       float64 `json:"subtotal"`
	VATAmount      float64 `json:"vatAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	GrandTotal     float64 `json:"grandTotal"`
}

// ComputeTotals prices each line as qty × price and derives the grand total as
// subtotal + subtotal×vat% − subtotal×discount%. VAT and discount are both
// taken from the same subtotal, never from each other.
//
// Negative and non-finite inputs count as zero, so the result never contains
// NaN or a negative line total.
func ComputeTotals(items []LineInput, vatPct, discountPct float64) Totals {
	lines := make([]Line, len(items))
	subtotal := decimal.Zero

	for i, item := range items {
		qty := clamp(item.Qty)
		price := clamp(item.Price)
		total := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))

		lines[i] = Line{Qty: qty, Price: price, Total: total.InexactFloat64()}
		subtotal = subtotal.Add(total)
	}

	vat := subtotal.Mul(decimal.NewFromFloat(clamp(vatPct))).Div(hundred)
	discount := subtotal.Mul(decimal.NewFromFloat(clamp(discountPct))).Div(hundred)

	return Totals{
		Items:          lines,
		Subtotal:       subtotal.InexactFloat64(),
		VATAmount:      vat.InexactFloat64(),
		DiscountAmount: discount.InexactFloat64(),
		GrandTotal:     subtotal.Add(vat).Sub(discount).InexactFloat64(),
	}
}

// ApplyTotals recomputes every derived total on the order in place.
// Stored item and order totals are ignored.
func ApplyTotals(order *models.Order) Totals {
	inputs := make([]LineInput, len(order.Items))
	for i, item := range order.Items {
		inputs[i] = LineInput{Qty: float64(item.Qty), Price: item.Price}
	}

	totals := ComputeTotals(inputs, order.VAT, order.Discount)
	for i := range order.Items {
		order.Items[i].Total = totals.Items[i].Total
	}
	order.Total = totals.GrandTotal

	return totals
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
