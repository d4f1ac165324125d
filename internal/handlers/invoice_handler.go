package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/services"
	"bookstore/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
	logger   zerolog.Logger
}

func NewInvoiceHandler(invoices *services.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		logger:   logger,
	}
}

// Checkout converts the authenticated customer's requested lines into an
// invoice. The customer identity always comes from the token; a
// customer_id in the body is ignored for customers and honored only for
// admins checking out on a customer's behalf.
func (h *InvoiceHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	role, _ := middleware.GetUserRole(r)
	if role != string(models.RoleAdmin) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
			return
		}
		req.CustomerID = userID
	}

	invoice, err := h.invoices.Checkout(&req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_invoice_id", "Invalid invoice ID")
		return
	}

	invoice, err := h.invoices.GetInvoice(id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if !canAccess(r, invoice.CustomerID) {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only view your own invoices")
		return
	}
	respondWithJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := store.InvoiceFilter{}

	if v := r.URL.Query().Get("customer_id"); v != "" {
		customerID, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer_id filter")
			return
		}
		filter.CustomerID = &customerID
	}
	if v := r.URL.Query().Get("number"); v != "" {
		number, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_number", "Invalid number filter")
			return
		}
		filter.Number = &number
	}

	// Customers only see their own invoices; admins see everything.
	role, _ := middleware.GetUserRole(r)
	if role != string(models.RoleAdmin) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
			return
		}
		filter.CustomerID = &userID
	}

	invoices, err := h.invoices.ListInvoices(filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, invoices)
}
