package models

import (
	"fmt"
	"time"
)

// Invoice is immutable once created. Line items and the shipping address
// are snapshots taken at purchase time; later catalog or profile edits do
// not affect past invoices.
type Invoice struct {
	ID         int             `json:"id"`
	Number     int             `json:"number"`
	CustomerID int             `json:"customer_id"`
	Items      []InvoiceItem   `json:"items"`
	Total      float64         `json:"total"`
	Shipping   ShippingAddress `json:"shipping"`
	CreatedAt  time.Time       `json:"created_at"`
}

type InvoiceItem struct {
	BookID    int     `json:"book_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// DisplayNumber renders the sequential invoice number in the form shown
// on printed invoices.
func (i *Invoice) DisplayNumber() string {
	return fmt.Sprintf("F-%06d", i.Number)
}

type CheckoutLine struct {
	BookID   int `json:"book_id"`
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerID int             `json:"customer_id"`
	Items      []CheckoutLine  `json:"items"`
	Shipping   ShippingAddress `json:"shipping"`
	// Total is informational only; the server recomputes it from current
	// unit prices.
	Total float64 `json:"total,omitempty"`
}
