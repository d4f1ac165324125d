package store

import "bookstore/internal/models"

// InvoiceFilter narrows ListInvoices. Nil fields match everything.
type InvoiceFilter struct {
	CustomerID *int
	Number     *int
}

// Store is the persistence port. The MySQL implementation backs the
// server; the in-memory implementation backs tests. Both classify
// failures through apperr so callers never depend on driver errors.
//
// CreateInvoice is the single operation with a multi-entity invariant:
// it must validate stock, decrement it, persist the invoice and clear
// the customer's cart as one atomic unit. Every other method is plain
// CRUD.
type Store interface {
	CreateBook(book *models.Book) (*models.Book, error)
	GetBook(id int) (*models.Book, error)
	GetBookByISBN(isbn string) (*models.Book, error)
	ListBooks() ([]*models.Book, error)
	UpdateBook(book *models.Book) error
	DeleteBook(id int) error
	ReplaceBooks(books []*models.Book) ([]*models.Book, error)
	DeleteAllBooks() error

	CreateUser(user *models.User) (*models.User, error)
	GetUser(id int) (*models.User, error)
	GetUserByEmailAndRole(email, role string) (*models.User, error)
	GetUserByNationalIDAndRole(nationalID, role string) (*models.User, error)
	ListUsersByRole(role string) ([]*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id int) error

	GetCart(customerID int) ([]*models.CartItem, error)
	ReplaceCart(customerID int, items []*models.CartItem) error
	ClearCart(customerID int) error

	CreateInvoice(customerID int, lines []models.CheckoutLine, shipping models.ShippingAddress) (*models.Invoice, error)
	GetInvoice(id int) (*models.Invoice, error)
	ListInvoices(filter InvoiceFilter) ([]*models.Invoice, error)

	Close() error
}
