package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CartHandler serves the cart sub-resource under a customer. The router
// guards these routes so only the cart's owner (or an admin) reaches
// them.
type CartHandler struct {
	carts  *services.CartService
	logger zerolog.Logger
}

func NewCartHandler(carts *services.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

func (h *CartHandler) customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer ID")
		return 0, false
	}
	if !canAccess(r, id) {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only access your own cart")
		return 0, false
	}
	return id, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	items, err := h.carts.GetCart(customerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	items, err := h.carts.AddItem(customerID, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, items)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_index", "Invalid cart position")
		return
	}

	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	items, err := h.carts.UpdateItem(customerID, index, req.Quantity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_index", "Invalid cart position")
		return
	}

	items, err := h.carts.RemoveItem(customerID, index)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}

	if err := h.carts.ClearCart(customerID); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
