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

type BookHandler struct {
	catalog *services.CatalogService
	logger  zerolog.Logger
}

func NewBookHandler(catalog *services.CatalogService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.ListBooks()
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_book_id", "Invalid book ID")
		return
	}

	book, err := h.catalog.GetBook(id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	book, err := h.catalog.CreateBook(&req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_book_id", "Invalid book ID")
		return
	}

	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	book, err := h.catalog.UpdateBook(id, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_book_id", "Invalid book ID")
		return
	}

	if err := h.catalog.DeleteBook(id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// ReplaceBooks handles the bulk PUT on the collection: the request body
// becomes the entire catalog.
func (h *BookHandler) ReplaceBooks(w http.ResponseWriter, r *http.Request) {
	var reqs []*models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	books, err := h.catalog.ReplaceBooks(reqs)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) DeleteAllBooks(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAllBooks(); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
