package router

import (
	"net/http"

	"bookstore/internal/handlers"
	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/services"
	"bookstore/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(st store.Store, jwtSecret string, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(jwtSecret, logger)
	catalogService := services.NewCatalogService(st, logger)
	customerService := services.NewUserService(st, models.RoleCustomer, logger)
	adminService := services.NewUserService(st, models.RoleAdmin, logger)
	cartService := services.NewCartService(st, logger)
	invoiceService := services.NewInvoiceService(st, logger)

	bookHandler := handlers.NewBookHandler(catalogService, logger)
	customerHandler := handlers.NewUserHandler(customerService, authService, logger)
	adminHandler := handlers.NewUserHandler(adminService, authService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	// Catalog reads are public; catalog writes are admin-only.
	books := api.PathPrefix("/books").Subrouter()
	books.HandleFunc("", bookHandler.ListBooks).Methods("GET")
	books.HandleFunc("/{id:[0-9]+}", bookHandler.GetBook).Methods("GET")

	booksAdmin := api.PathPrefix("/books").Subrouter()
	booksAdmin.Use(middleware.Authentication(jwtSecret, logger))
	booksAdmin.Use(middleware.RequireRole(string(models.RoleAdmin)))
	booksAdmin.Use(middleware.RequestValidation())
	booksAdmin.HandleFunc("", bookHandler.CreateBook).Methods("POST")
	booksAdmin.HandleFunc("", bookHandler.ReplaceBooks).Methods("PUT")
	booksAdmin.HandleFunc("", bookHandler.DeleteAllBooks).Methods("DELETE")
	booksAdmin.HandleFunc("/{id:[0-9]+}", bookHandler.UpdateBook).Methods("PUT")
	booksAdmin.HandleFunc("/{id:[0-9]+}", bookHandler.DeleteBook).Methods("DELETE")

	// Registration and authentication are public; everything else on the
	// two user collections requires a token.
	customers := api.PathPrefix("/customers").Subrouter()
	customers.HandleFunc("", customerHandler.Register).Methods("POST")
	customers.HandleFunc("/authenticate", customerHandler.Authenticate).Methods("POST")

	customersAuth := api.PathPrefix("/customers").Subrouter()
	customersAuth.Use(middleware.Authentication(jwtSecret, logger))
	customersAuth.HandleFunc("", customerHandler.ListUsers).Methods("GET")
	customersAuth.HandleFunc("/{id:[0-9]+}", customerHandler.GetUser).Methods("GET")
	customersAuth.HandleFunc("/{id:[0-9]+}", customerHandler.UpdateUser).Methods("PUT")
	customersAuth.HandleFunc("/{id:[0-9]+}", customerHandler.DeleteUser).Methods("DELETE")

	customersAuth.HandleFunc("/{id:[0-9]+}/cart", cartHandler.GetCart).Methods("GET")
	customersAuth.HandleFunc("/{id:[0-9]+}/cart", cartHandler.ClearCart).Methods("DELETE")
	customersAuth.HandleFunc("/{id:[0-9]+}/cart/items", cartHandler.AddItem).Methods("POST")
	customersAuth.HandleFunc("/{id:[0-9]+}/cart/items/{index:[0-9]+}", cartHandler.UpdateItem).Methods("PUT")
	customersAuth.HandleFunc("/{id:[0-9]+}/cart/items/{index:[0-9]+}", cartHandler.RemoveItem).Methods("DELETE")

	admins := api.PathPrefix("/admins").Subrouter()
	admins.HandleFunc("", adminHandler.Register).Methods("POST")
	admins.HandleFunc("/authenticate", adminHandler.Authenticate).Methods("POST")

	adminsAuth := api.PathPrefix("/admins").Subrouter()
	adminsAuth.Use(middleware.Authentication(jwtSecret, logger))
	adminsAuth.HandleFunc("", adminHandler.ListUsers).Methods("GET")
	adminsAuth.HandleFunc("/{id:[0-9]+}", adminHandler.GetUser).Methods("GET")
	adminsAuth.HandleFunc("/{id:[0-9]+}", adminHandler.UpdateUser).Methods("PUT")
	adminsAuth.HandleFunc("/{id:[0-9]+}", adminHandler.DeleteUser).Methods("DELETE")

	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.Use(middleware.Authentication(jwtSecret, logger))
	invoices.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoices.HandleFunc("/{id:[0-9]+}", invoiceHandler.GetInvoice).Methods("GET")

	checkout := api.PathPrefix("/invoices").Subrouter()
	checkout.Use(middleware.Authentication(jwtSecret, logger))
	checkout.Use(middleware.RequestValidation())
	checkout.HandleFunc("", invoiceHandler.Checkout).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
