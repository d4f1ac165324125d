package services

import (
	"testing"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesOnExistingBook(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Merged", 10.00, 10)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	items, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Scarce", 10.00, 3)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 4})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// Merging over the limit is also rejected, and the cart keeps its
	// previous quantity.
	_, err = svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	items, err := svc.GetCart(customer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: 1, Quantity: 0})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: 999, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateItemQuantity(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Updatable", 10.00, 5)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	items, err := svc.UpdateItem(customer.ID, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)

	_, err = svc.UpdateItem(customer.ID, 0, 6)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	_, err = svc.UpdateItem(customer.ID, 1, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidIndex, apperr.KindOf(err))
}

func TestUpdateItemToZeroRemovesLine(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Removable", 10.00, 5)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	items, err := svc.UpdateItem(customer.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItemByIndex(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Removable", 10.00, 5)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)

	items, err := svc.RemoveItem(customer.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Removing from the now-empty cart fails instead of succeeding
	// silently.
	_, err = svc.RemoveItem(customer.ID, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidIndex, apperr.KindOf(err))
}

func TestRemoveItemPreservesOrder(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	first := seedBook(t, st, "First", 10.00, 5)
	second := seedBook(t, st, "Second", 10.00, 5)
	third := seedBook(t, st, "Third", 10.00, 5)
	customer := seedCustomer(t, st, "carla@test.com")

	for _, b := range []*models.Book{first, second, third} {
		_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: b.ID, Quantity: 1})
		require.NoError(t, err)
	}

	items, err := svc.RemoveItem(customer.ID, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].BookID)
	assert.Equal(t, third.ID, items[1].BookID)
}

func TestClearCartIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewCartService(st, testLogger())
	book := seedBook(t, st, "Clearable", 10.00, 5)
	customer := seedCustomer(t, st, "carla@test.com")

	_, err := svc.AddItem(customer.ID, &models.AddCartItemRequest{BookID: book.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(customer.ID))
	require.NoError(t, svc.ClearCart(customer.ID))

	items, err := svc.GetCart(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
