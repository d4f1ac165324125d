package services

import (
	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/rs/zerolog"
)

// InvoiceService turns carts into invoices. The all-or-nothing stock
// guarantee lives in the store's CreateInvoice; this layer validates the
// request shape and ignores any client-supplied total.
type InvoiceService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewInvoiceService(st store.Store, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		store:  st,
		logger: logger,
	}
}

func validateShipping(addr *models.ShippingAddress) error {
	if addr.Name == "" {
		return apperr.Validation("shipping name is required")
	}
	if addr.Street == "" {
		return apperr.Validation("shipping street is required")
	}
	if addr.City == "" {
		return apperr.Validation("shipping city is required")
	}
	if addr.PostalCode == "" {
		return apperr.Validation("shipping postal code is required")
	}
	if addr.Phone == "" {
		return apperr.Validation("shipping phone is required")
	}
	return nil
}

// mergeLines sums quantities for repeated book ids so each book is
// checked and decremented exactly once. First occurrence keeps its
// position.
func mergeLines(lines []models.CheckoutLine) []models.CheckoutLine {
	index := make(map[int]int, len(lines))
	merged := make([]models.CheckoutLine, 0, len(lines))
	for _, line := range lines {
		if at, ok := index[line.BookID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.BookID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func (s *InvoiceService) Checkout(req *models.CheckoutRequest) (*models.Invoice, error) {
	if req.CustomerID <= 0 {
		return nil, apperr.Validation("customer_id is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("checkout requires at least one item")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity for book %d must be a positive integer", line.BookID)
		}
	}
	if err := validateShipping(&req.Shipping); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUser(req.CustomerID); err != nil {
		return nil, err
	}

	invoice, err := s.store.CreateInvoice(req.CustomerID, mergeLines(req.Items), req.Shipping)
	if err != nil {
		s.logger.Warn().Err(err).Int("customer_id", req.CustomerID).Msg("Checkout failed")
		return nil, err
	}

	s.logger.Info().
		Int("invoice_id", invoice.ID).
		Str("number", invoice.DisplayNumber()).
		Int("customer_id", invoice.CustomerID).
		Float64("total", invoice.Total).
		Msg("Checkout completed")

	return invoice, nil
}

func (s *InvoiceService) GetInvoice(id int) (*models.Invoice, error) {
	return s.store.GetInvoice(id)
}

func (s *InvoiceService) ListInvoices(filter store.InvoiceFilter) ([]*models.Invoice, error) {
	return s.store.ListInvoices(filter)
}
