package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("❌ Veritabanına bağlanılamadı:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("❌ Veritabanı yanıt vermiyor:", err)
	}

	log.Println("✅ Veritabanına bağlanıldı")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			isbn VARCHAR(20) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			stock INT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_books_isbn (isbn)
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			national_id VARCHAR(10) NOT NULL,
			name VARCHAR(100) NOT NULL,
			surname VARCHAR(100) NOT NULL,
			address VARCHAR(255),
			phone VARCHAR(20),
			email VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_email_role (email, role),
			UNIQUE KEY uq_users_national_id_role (national_id, role)
		);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL,
			book_id INT NOT NULL,
			quantity INT NOT NULL,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_cart_customer_book (customer_id, book_id),
			INDEX idx_cart_customer (customer_id),
			FOREIGN KEY (customer_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id INT AUTO_INCREMENT PRIMARY KEY,
			number INT NOT NULL,
			customer_id INT NOT NULL,
			total DECIMAL(10,2) NOT NULL,
			ship_name VARCHAR(200) NOT NULL,
			ship_street VARCHAR(255) NOT NULL,
			ship_city VARCHAR(100) NOT NULL,
			ship_postal_code VARCHAR(20) NOT NULL,
			ship_phone VARCHAR(20) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_invoices_number (number),
			INDEX idx_invoices_customer (customer_id)
		);`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			invoice_id INT NOT NULL,
			book_id INT NOT NULL,
			title VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			INDEX idx_invoice_items_invoice (invoice_id),
			FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("Migration hatası:", err)
		}
	}
	log.Println("Migration tamamlandı")
}
