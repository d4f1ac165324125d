package models

import "time"

// CartItem is one line of a customer's cart. A cart holds at most one
// line per book; adding an existing book merges quantities.
type CartItem struct {
	BookID   int       `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

type AddCartItemRequest struct {
	BookID   int `json:"book_id"`
	Quantity int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
