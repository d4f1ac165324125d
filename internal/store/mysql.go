package store

import (
	"database/sql"
	"sort"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
)

// MySQLStore implements Store on top of database/sql. Checkout relies on
// InnoDB row locks (SELECT ... FOR UPDATE) to serialize concurrent stock
// checks against the same book.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Close() error { return s.db.Close() }

const bookColumns = "id, title, author, isbn, price, stock, created_at, updated_at"

func scanBook(row interface{ Scan(...interface{}) error }) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MySQLStore) CreateBook(book *models.Book) (*models.Book, error) {
	result, err := s.db.Exec(
		"INSERT INTO books (title, author, isbn, price, stock) VALUES (?, ?, ?, ?, ?)",
		book.Title, book.Author, book.ISBN, book.Price, book.Stock,
	)
	if err != nil {
		return nil, apperr.Transient(err, "failed to create book")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Transient(err, "failed to get book ID")
	}
	return s.GetBook(int(id))
}

func (s *MySQLStore) GetBook(id int) (*models.Book, error) {
	book, err := scanBook(s.db.QueryRow("SELECT "+bookColumns+" FROM books WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("book %d not found", id)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch book %d", id)
	}
	return book, nil
}

func (s *MySQLStore) GetBookByISBN(isbn string) (*models.Book, error) {
	book, err := scanBook(s.db.QueryRow("SELECT "+bookColumns+" FROM books WHERE isbn = ?", isbn))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("book with ISBN %s not found", isbn)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch book by ISBN")
	}
	return book, nil
}

func (s *MySQLStore) ListBooks() ([]*models.Book, error) {
	rows, err := s.db.Query("SELECT " + bookColumns + " FROM books ORDER BY id")
	if err != nil {
		return nil, apperr.Transient(err, "failed to list books")
	}
	defer rows.Close()

	books := []*models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, apperr.Transient(err, "failed to scan book")
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (s *MySQLStore) UpdateBook(book *models.Book) error {
	result, err := s.db.Exec(
		"UPDATE books SET title = ?, author = ?, isbn = ?, price = ?, stock = ? WHERE id = ?",
		book.Title, book.Author, book.ISBN, book.Price, book.Stock, book.ID,
	)
	if err != nil {
		return apperr.Transient(err, "failed to update book %d", book.ID)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		if _, err := s.GetBook(book.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQLStore) DeleteBook(id int) error {
	result, err := s.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return apperr.Transient(err, "failed to delete book %d", id)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.NotFound("book %d not found", id)
	}
	return nil
}

func (s *MySQLStore) ReplaceBooks(books []*models.Book) ([]*models.Book, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Transient(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM books"); err != nil {
		return nil, apperr.Transient(err, "failed to clear catalog")
	}

	created := make([]*models.Book, 0, len(books))
	for _, book := range books {
		result, err := tx.Exec(
			"INSERT INTO books (title, author, isbn, price, stock) VALUES (?, ?, ?, ?, ?)",
			book.Title, book.Author, book.ISBN, book.Price, book.Stock,
		)
		if err != nil {
			return nil, apperr.Transient(err, "failed to insert book %q", book.Title)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, apperr.Transient(err, "failed to get book ID")
		}
		b := *book
		b.ID = int(id)
		created = append(created, &b)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Transient(err, "failed to commit catalog replace")
	}
	return created, nil
}

func (s *MySQLStore) DeleteAllBooks() error {
	if _, err := s.db.Exec("DELETE FROM books"); err != nil {
		return apperr.Transient(err, "failed to delete all books")
	}
	return nil
}

const userColumns = "id, national_id, name, surname, address, phone, email, password_hash, role, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.NationalID, &u.Name, &u.Surname, &u.Address, &u.Phone,
		&u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MySQLStore) CreateUser(user *models.User) (*models.User, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (national_id, name, surname, address, phone, email, password_hash, role) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.NationalID, user.Name, user.Surname, user.Address, user.Phone, user.Email, user.PasswordHash, user.Role,
	)
	if err != nil {
		return nil, apperr.Transient(err, "failed to create user")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Transient(err, "failed to get user ID")
	}
	return s.GetUser(int(id))
}

func (s *MySQLStore) GetUser(id int) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch user %d", id)
	}
	return user, nil
}

func (s *MySQLStore) GetUserByEmailAndRole(email, role string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE email = ? AND role = ?", email, role))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no %s with email %s", role, email)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch user by email")
	}
	return user, nil
}

func (s *MySQLStore) GetUserByNationalIDAndRole(nationalID, role string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE national_id = ? AND role = ?", nationalID, role))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("no %s with national ID %s", role, nationalID)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch user by national ID")
	}
	return user, nil
}

func (s *MySQLStore) ListUsersByRole(role string) ([]*models.User, error) {
	rows, err := s.db.Query("SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY id", role)
	if err != nil {
		return nil, apperr.Transient(err, "failed to list users")
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Transient(err, "failed to scan user")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *MySQLStore) UpdateUser(user *models.User) error {
	_, err := s.db.Exec(
		"UPDATE users SET national_id = ?, name = ?, surname = ?, address = ?, phone = ?, email = ?, password_hash = ? WHERE id = ?",
		user.NationalID, user.Name, user.Surname, user.Address, user.Phone, user.Email, user.PasswordHash, user.ID,
	)
	if err != nil {
		return apperr.Transient(err, "failed to update user %d", user.ID)
	}
	return nil
}

func (s *MySQLStore) DeleteUser(id int) error {
	result, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return apperr.Transient(err, "failed to delete user %d", id)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperr.NotFound("user %d not found", id)
	}
	return nil
}

func (s *MySQLStore) GetCart(customerID int) ([]*models.CartItem, error) {
	rows, err := s.db.Query(
		"SELECT book_id, quantity, added_at FROM cart_items WHERE customer_id = ? ORDER BY id", customerID)
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch cart")
	}
	defer rows.Close()

	items := []*models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.BookID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, apperr.Transient(err, "failed to scan cart item")
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// ReplaceCart swaps the whole cart in one transaction. Row insertion
// order defines the cart's positional order.
func (s *MySQLStore) ReplaceCart(customerID int, items []*models.CartItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Transient(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cart_items WHERE customer_id = ?", customerID); err != nil {
		return apperr.Transient(err, "failed to clear cart")
	}
	for _, item := range items {
		_, err := tx.Exec(
			"INSERT INTO cart_items (customer_id, book_id, quantity, added_at) VALUES (?, ?, ?, ?)",
			customerID, item.BookID, item.Quantity, item.AddedAt,
		)
		if err != nil {
			return apperr.Transient(err, "failed to insert cart item")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Transient(err, "failed to commit cart update")
	}
	return nil
}

func (s *MySQLStore) ClearCart(customerID int) error {
	if _, err := s.db.Exec("DELETE FROM cart_items WHERE customer_id = ?", customerID); err != nil {
		return apperr.Transient(err, "failed to clear cart")
	}
	return nil
}

// CreateInvoice converts validated checkout lines into a persisted
// invoice. Book rows are locked in ascending id order to avoid
// deadlocks between concurrent checkouts; the stock check, the
// decrement, the invoice insert and the cart clear all commit or roll
// back together.
func (s *MySQLStore) CreateInvoice(customerID int, lines []models.CheckoutLine, shipping models.ShippingAddress) (*models.Invoice, error) {
	sorted := make([]models.CheckoutLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BookID < sorted[j].BookID })

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Transient(err, "failed to start checkout transaction")
	}
	defer tx.Rollback()

	var total float64
	items := make([]models.InvoiceItem, 0, len(sorted))
	for _, line := range sorted {
		var title string
		var price float64
		var stock int
		err := tx.QueryRow(
			"SELECT title, price, stock FROM books WHERE id = ? FOR UPDATE", line.BookID,
		).Scan(&title, &price, &stock)
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("book %d not found", line.BookID)
		}
		if err != nil {
			return nil, apperr.Transient(err, "failed to lock book %d", line.BookID)
		}
		if stock < line.Quantity {
			return nil, apperr.InsufficientStock(
				"insufficient stock for %q: requested %d, available %d", title, line.Quantity, stock)
		}
		items = append(items, models.InvoiceItem{
			BookID: line.BookID, Title: title, Quantity: line.Quantity, UnitPrice: price,
		})
		total += price * float64(line.Quantity)
	}

	var number int
	err = tx.QueryRow("SELECT COALESCE(MAX(number), 0) + 1 FROM invoices FOR UPDATE").Scan(&number)
	if err != nil {
		return nil, apperr.Transient(err, "failed to allocate invoice number")
	}

	result, err := tx.Exec(
		`INSERT INTO invoices (number, customer_id, total, ship_name, ship_street, ship_city, ship_postal_code, ship_phone)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		number, customerID, total, shipping.Name, shipping.Street, shipping.City, shipping.PostalCode, shipping.Phone,
	)
	if err != nil {
		return nil, apperr.Transient(err, "failed to insert invoice")
	}
	invoiceID, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Transient(err, "failed to get invoice ID")
	}

	for _, item := range items {
		_, err := tx.Exec(
			"INSERT INTO invoice_items (invoice_id, book_id, title, quantity, unit_price) VALUES (?, ?, ?, ?, ?)",
			invoiceID, item.BookID, item.Title, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return nil, apperr.Transient(err, "failed to insert invoice item")
		}
		_, err = tx.Exec("UPDATE books SET stock = stock - ? WHERE id = ?", item.Quantity, item.BookID)
		if err != nil {
			return nil, apperr.Transient(err, "failed to decrement stock for book %d", item.BookID)
		}
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE customer_id = ?", customerID); err != nil {
		return nil, apperr.Transient(err, "failed to clear cart after checkout")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Transient(err, "failed to commit checkout")
	}

	return s.GetInvoice(int(invoiceID))
}

func (s *MySQLStore) GetInvoice(id int) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.QueryRow(
		`SELECT id, number, customer_id, total, ship_name, ship_street, ship_city, ship_postal_code, ship_phone, created_at
		 FROM invoices WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.Total,
		&inv.Shipping.Name, &inv.Shipping.Street, &inv.Shipping.City, &inv.Shipping.PostalCode, &inv.Shipping.Phone,
		&inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("invoice %d not found", id)
	}
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch invoice %d", id)
	}

	items, err := s.invoiceItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (s *MySQLStore) invoiceItems(invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := s.db.Query(
		"SELECT book_id, title, quantity, unit_price FROM invoice_items WHERE invoice_id = ? ORDER BY id", invoiceID)
	if err != nil {
		return nil, apperr.Transient(err, "failed to fetch invoice items")
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.BookID, &item.Title, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, apperr.Transient(err, "failed to scan invoice item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *MySQLStore) ListInvoices(filter InvoiceFilter) ([]*models.Invoice, error) {
	query := `SELECT id, number, customer_id, total, ship_name, ship_street, ship_city, ship_postal_code, ship_phone, created_at
		 FROM invoices WHERE 1=1`
	args := []interface{}{}
	if filter.CustomerID != nil {
		query += " AND customer_id = ?"
		args = append(args, *filter.CustomerID)
	}
	if filter.Number != nil {
		query += " AND number = ?"
		args = append(args, *filter.Number)
	}
	query += " ORDER BY number"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Transient(err, "failed to list invoices")
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		var inv models.Invoice
		err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.Total,
			&inv.Shipping.Name, &inv.Shipping.Street, &inv.Shipping.City, &inv.Shipping.PostalCode, &inv.Shipping.Phone,
			&inv.CreatedAt)
		if err != nil {
			return nil, apperr.Transient(err, "failed to scan invoice")
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient(err, "failed to read invoices")
	}

	for _, inv := range invoices {
		items, err := s.invoiceItems(inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	return invoices, nil
}

var _ Store = (*MySQLStore)(nil)
