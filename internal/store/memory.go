package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
)

// MemoryStore implements Store with plain maps behind one mutex. It is
// the injected fake used by service tests; the mutex gives checkout the
// same serialization MySQL provides with row locks.
type MemoryStore struct {
	mu sync.Mutex

	books      map[int]*models.Book
	users      map[int]*models.User
	carts      map[int][]*models.CartItem
	invoices   map[int]*models.Invoice
	nextBookID int
	nextUserID int
	nextInvID  int
	nextNumber int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:      make(map[int]*models.Book),
		users:      make(map[int]*models.User),
		carts:      make(map[int][]*models.CartItem),
		invoices:   make(map[int]*models.Invoice),
		nextBookID: 1,
		nextUserID: 1,
		nextInvID:  1,
		nextNumber: 1,
	}
}

func (s *MemoryStore) Close() error { return nil }

func cloneBook(b *models.Book) *models.Book {
	c := *b
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	c := *inv
	c.Items = append([]models.InvoiceItem(nil), inv.Items...)
	return &c
}

func (s *MemoryStore) CreateBook(book *models.Book) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := *book
	b.ID = s.nextBookID
	s.nextBookID++
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.books[b.ID] = &b
	return cloneBook(&b), nil
}

func (s *MemoryStore) GetBook(id int) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return nil, apperr.NotFound("book %d not found", id)
	}
	return cloneBook(book), nil
}

func (s *MemoryStore) GetBookByISBN(isbn string) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.ISBN == isbn {
			return cloneBook(book), nil
		}
	}
	return nil, apperr.NotFound("book with ISBN %s not found", isbn)
}

func (s *MemoryStore) ListBooks() ([]*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]*models.Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, cloneBook(book))
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (s *MemoryStore) UpdateBook(book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.books[book.ID]
	if !ok {
		return apperr.NotFound("book %d not found", book.ID)
	}
	b := *book
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	s.books[b.ID] = &b
	return nil
}

func (s *MemoryStore) DeleteBook(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return apperr.NotFound("book %d not found", id)
	}
	delete(s.books, id)
	return nil
}

func (s *MemoryStore) ReplaceBooks(books []*models.Book) ([]*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = make(map[int]*models.Book)
	created := make([]*models.Book, 0, len(books))
	now := time.Now()
	for _, book := range books {
		b := *book
		b.ID = s.nextBookID
		s.nextBookID++
		b.CreatedAt = now
		b.UpdatedAt = now
		s.books[b.ID] = &b
		created = append(created, cloneBook(&b))
	}
	return created, nil
}

func (s *MemoryStore) DeleteAllBooks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = make(map[int]*models.Book)
	return nil
}

func (s *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	u.ID = s.nextUserID
	s.nextUserID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = &u
	return cloneUser(&u), nil
}

func (s *MemoryStore) GetUser(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) GetUserByEmailAndRole(email, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) && user.Role == role {
			return cloneUser(user), nil
		}
	}
	return nil, apperr.NotFound("no %s with email %s", role, email)
}

func (s *MemoryStore) GetUserByNationalIDAndRole(nationalID, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.NationalID == nationalID && user.Role == role {
			return cloneUser(user), nil
		}
	}
	return nil, apperr.NotFound("no %s with national ID %s", role, nationalID)
}

func (s *MemoryStore) ListUsersByRole(role string) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []*models.User{}
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, cloneUser(user))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return apperr.NotFound("user %d not found", user.ID)
	}
	u := *user
	u.Role = existing.Role
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	s.users[u.ID] = &u
	return nil
}

func (s *MemoryStore) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperr.NotFound("user %d not found", id)
	}
	delete(s.users, id)
	delete(s.carts, id)
	return nil
}

func (s *MemoryStore) GetCart(customerID int) ([]*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[customerID]
	out := make([]*models.CartItem, 0, len(items))
	for _, item := range items {
		c := *item
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) ReplaceCart(customerID int, items []*models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]*models.CartItem, 0, len(items))
	for _, item := range items {
		c := *item
		stored = append(stored, &c)
	}
	s.carts[customerID] = stored
	return nil
}

func (s *MemoryStore) ClearCart(customerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, customerID)
	return nil
}

func (s *MemoryStore) CreateInvoice(customerID int, lines []models.CheckoutLine, shipping models.ShippingAddress) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every line before touching any stock; a failing line must
	// leave the whole catalog unchanged.
	var total float64
	items := make([]models.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		book, ok := s.books[line.BookID]
		if !ok {
			return nil, apperr.NotFound("book %d not found", line.BookID)
		}
		if book.Stock < line.Quantity {
			return nil, apperr.InsufficientStock(
				"insufficient stock for %q: requested %d, available %d", book.Title, line.Quantity, book.Stock)
		}
		items = append(items, models.InvoiceItem{
			BookID: book.ID, Title: book.Title, Quantity: line.Quantity, UnitPrice: book.Price,
		})
		total += book.Price * float64(line.Quantity)
	}

	for _, item := range items {
		s.books[item.BookID].Stock -= item.Quantity
	}

	inv := &models.Invoice{
		ID:         s.nextInvID,
		Number:     s.nextNumber,
		CustomerID: customerID,
		Items:      items,
		Total:      total,
		Shipping:   shipping,
		CreatedAt:  time.Now(),
	}
	s.nextInvID++
	s.nextNumber++
	s.invoices[inv.ID] = inv
	delete(s.carts, customerID)

	return cloneInvoice(inv), nil
}

func (s *MemoryStore) GetInvoice(id int) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, apperr.NotFound("invoice %d not found", id)
	}
	return cloneInvoice(inv), nil
}

func (s *MemoryStore) ListInvoices(filter InvoiceFilter) ([]*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices := []*models.Invoice{}
	for _, inv := range s.invoices {
		if filter.CustomerID != nil && inv.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Number != nil && inv.Number != *filter.Number {
			continue
		}
		invoices = append(invoices, cloneInvoice(inv))
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].Number < invoices[j].Number })
	return invoices, nil
}

var _ Store = (*MemoryStore)(nil)
