package db

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// LoadFixtures seeds a demo catalog and one account per role. Inserts
// use INSERT IGNORE so running it against a populated database is a
// no-op.
func LoadFixtures(db *sql.DB) error {
	books := []struct {
		title, author, isbn string
		price               float64
		stock               int
	}{
		{"La sombra del viento", "Carlos Ruiz Zafón", "9788408163381", 15.95, 25},
		{"El nombre del viento", "Patrick Rothfuss", "9788401352836", 22.50, 10},
		{"Clean Code", "Robert C. Martin", "9780132350884", 31.20, 8},
		{"The Go Programming Language", "Donovan & Kernighan", "9780134190440", 35.00, 12},
	}

	for _, b := range books {
		_, err := db.Exec(
			"INSERT IGNORE INTO books (title, author, isbn, price, stock) VALUES (?, ?, ?, ?, ?)",
			b.title, b.author, b.isbn, b.price, b.stock,
		)
		if err != nil {
			return fmt.Errorf("failed to seed book %q: %w", b.title, err)
		}
	}

	users := []struct {
		nationalID, name, surname, address, phone, email, password, role string
	}{
		{"1111111A", "Ada", "Admin", "Calle Mayor 1", "600111222", "admin@bookstore.test", "admin123", "ADMIN"},
		{"2222222B", "Carla", "Cliente", "Calle Menor 2", "600333444", "carla@bookstore.test", "carla123", "CUSTOMER"},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash fixture password: %w", err)
		}
		_, err = db.Exec(
			"INSERT IGNORE INTO users (national_id, name, surname, address, phone, email, password_hash, role) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			u.nationalID, u.name, u.surname, u.address, u.phone, u.email, string(hash), u.role,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.email, err)
		}
	}

	return nil
}
