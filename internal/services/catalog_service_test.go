package services

import (
	"testing"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() *models.BookRequest {
	return &models.BookRequest{
		Title:  "La sombra del viento",
		Author: "Carlos Ruiz Zafón",
		ISBN:   "9788408163381",
		Price:  15.95,
		Stock:  25,
	}
}

func TestCreateBookValidation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	cases := []struct {
		name   string
		mutate func(*models.BookRequest)
	}{
		{"missing title", func(r *models.BookRequest) { r.Title = "" }},
		{"missing author", func(r *models.BookRequest) { r.Author = "" }},
		{"missing ISBN", func(r *models.BookRequest) { r.ISBN = "" }},
		{"zero price", func(r *models.BookRequest) { r.Price = 0 }},
		{"negative price", func(r *models.BookRequest) { r.Price = -1 }},
		{"negative stock", func(r *models.BookRequest) { r.Stock = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validBook()
			tc.mutate(req)
			_, err := svc.CreateBook(req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestCreateAndGetBookRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	created, err := svc.CreateBook(validBook())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.GetBook(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Author, fetched.Author)
	assert.Equal(t, created.ISBN, fetched.ISBN)
	assert.InDelta(t, created.Price, fetched.Price, 0.001)
	assert.Equal(t, created.Stock, fetched.Stock)
}

func TestCreateBookISBNConflict(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	_, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	dup := validBook()
	dup.Title = "Different title, same ISBN"
	_, err = svc.CreateBook(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateBook(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	book, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	req := validBook()
	req.Price = 18.50
	req.Stock = 30
	updated, err := svc.UpdateBook(book.ID, req)
	require.NoError(t, err)
	assert.InDelta(t, 18.50, updated.Price, 0.001)
	assert.Equal(t, 30, updated.Stock)

	// Updating a book keeps its own ISBN without raising a conflict.
	_, err = svc.UpdateBook(book.ID, validBook())
	require.NoError(t, err)

	_, err = svc.UpdateBook(999, validBook())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateBookISBNConflict(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	_, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	other := validBook()
	other.ISBN = "9780132350884"
	second, err := svc.CreateBook(other)
	require.NoError(t, err)

	req := validBook()
	req.ISBN = "9788408163381" // first book's ISBN
	_, err = svc.UpdateBook(second.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeleteBook(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	book, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(book.ID))

	err = svc.DeleteBook(book.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReplaceBooks(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	_, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	replacement := []*models.BookRequest{
		{Title: "A", Author: "AA", ISBN: "isbn-a", Price: 10, Stock: 1},
		{Title: "B", Author: "BB", ISBN: "isbn-b", Price: 20, Stock: 2},
	}
	books, err := svc.ReplaceBooks(replacement)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	all, err := svc.ListBooks()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "B", all[1].Title)
}

func TestReplaceBooksRejectsDuplicateISBN(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	existing, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	_, err = svc.ReplaceBooks([]*models.BookRequest{
		{Title: "A", Author: "AA", ISBN: "same", Price: 10, Stock: 1},
		{Title: "B", Author: "BB", ISBN: "same", Price: 20, Stock: 2},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Failed replace leaves the catalog untouched.
	all, err := svc.ListBooks()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
}

func TestDeleteAllBooks(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCatalogService(st, testLogger())

	_, err := svc.CreateBook(validBook())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllBooks())

	all, err := svc.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, all)
}
