package services

import (
	"time"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/rs/zerolog"
)

// CartService keeps the per-customer ordered list of (book, quantity)
// lines. Stock is re-read from the catalog on every mutation; the
// authoritative check still happens at checkout under the store's
// transaction.
type CartService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewCartService(st store.Store, logger zerolog.Logger) *CartService {
	return &CartService{
		store:  st,
		logger: logger,
	}
}

func (s *CartService) GetCart(customerID int) ([]*models.CartItem, error) {
	return s.store.GetCart(customerID)
}

// AddItem merges into an existing line for the same book, otherwise
// appends. The resulting quantity must not exceed the book's live stock.
func (s *CartService) AddItem(customerID int, req *models.AddCartItemRequest) ([]*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	book, err := s.store.GetBook(req.BookID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetCart(customerID)
	if err != nil {
		return nil, err
	}

	merged := false
	for _, item := range items {
		if item.BookID == req.BookID {
			if item.Quantity+req.Quantity > book.Stock {
				return nil, apperr.InsufficientStock(
					"insufficient stock for %q: requested %d, available %d",
					book.Title, item.Quantity+req.Quantity, book.Stock)
			}
			item.Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		if req.Quantity > book.Stock {
			return nil, apperr.InsufficientStock(
				"insufficient stock for %q: requested %d, available %d", book.Title, req.Quantity, book.Stock)
		}
		items = append(items, &models.CartItem{
			BookID:   req.BookID,
			Quantity: req.Quantity,
			AddedAt:  time.Now(),
		})
	}

	if err := s.store.ReplaceCart(customerID, items); err != nil {
		return nil, err
	}

	s.logger.Info().Int("customer_id", customerID).Int("book_id", req.BookID).
		Int("quantity", req.Quantity).Msg("Cart item added")
	return items, nil
}

// UpdateItem sets the quantity of the line at the given position. A
// quantity of zero or less removes the line instead of storing it.
func (s *CartService) UpdateItem(customerID, index, quantity int) ([]*models.CartItem, error) {
	items, err := s.store.GetCart(customerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, apperr.InvalidIndex("cart position %d out of range", index)
	}

	if quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	} else {
		book, err := s.store.GetBook(items[index].BookID)
		if err != nil {
			return nil, err
		}
		if quantity > book.Stock {
			return nil, apperr.InsufficientStock(
				"insufficient stock for %q: requested %d, available %d", book.Title, quantity, book.Stock)
		}
		items[index].Quantity = quantity
	}

	if err := s.store.ReplaceCart(customerID, items); err != nil {
		return nil, err
	}

	s.logger.Info().Int("customer_id", customerID).Int("index", index).
		Int("quantity", quantity).Msg("Cart item updated")
	return items, nil
}

func (s *CartService) RemoveItem(customerID, index int) ([]*models.CartItem, error) {
	items, err := s.store.GetCart(customerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, apperr.InvalidIndex("cart position %d out of range", index)
	}

	items = append(items[:index], items[index+1:]...)

	if err := s.store.ReplaceCart(customerID, items); err != nil {
		return nil, err
	}

	s.logger.Info().Int("customer_id", customerID).Int("index", index).Msg("Cart item removed")
	return items, nil
}

// ClearCart is idempotent; clearing an empty cart succeeds.
func (s *CartService) ClearCart(customerID int) error {
	if err := s.store.ClearCart(customerID); err != nil {
		return err
	}
	s.logger.Info().Int("customer_id", customerID).Msg("Cart cleared")
	return nil
}
