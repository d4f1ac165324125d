package handlers

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/apperr"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// respondWithAppError maps a service/store error onto the wire via the
// apperr taxonomy. Transient and unclassified errors hide their cause.
func respondWithAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "An internal error occurred. The request may be retried."
	}
	respondWithError(w, status, apperr.CodeOf(err), message)
}
