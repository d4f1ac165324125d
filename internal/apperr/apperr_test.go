package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClassification(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("book %d not found", 7)))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate ISBN")))
	assert.Equal(t, KindInsufficientStock, KindOf(InsufficientStock("no stock")))
	assert.Equal(t, KindInvalidCredentials, KindOf(InvalidCredentials()))
	assert.Equal(t, KindInvalidIndex, KindOf(InvalidIndex("position 3")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))

	// Unclassified errors are treated as transient.
	assert.Equal(t, KindTransient, KindOf(errors.New("driver exploded")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("checkout failed: %w", InsufficientStock("no stock for %q", "Dune"))
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, "insufficient_stock", CodeOf(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{InsufficientStock("x"), http.StatusBadRequest},
		{InvalidIndex("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{InvalidCredentials(), http.StatusUnauthorized},
		{Transient(errors.New("boom"), "commit failed"), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestTransientWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transient(cause, "failed to commit checkout")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to commit checkout")
	assert.Contains(t, err.Error(), "connection reset")
}
