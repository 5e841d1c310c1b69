// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simmr/simmr/internal/handler/dto"
	"github.com/simmr/simmr/internal/service"
	"github.com/simmr/simmr/internal/store"
)

// Handler holds shared handler helpers.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is a simple hello endpoint for testing.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Hello from Simmr!",
		"version": "0.1.0",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// pathID parses the named chi URL parameter as an entity identity.
func pathID(r *http.Request, name string) (uint64, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var tooLarge *store.TooLargeError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusUnprocessableEntity, "RECORD_TOO_LARGE", "Entity exceeds the maximum record size")
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrContractNotInitialized):
		writeError(w, http.StatusConflict, "CONTRACT_NOT_INITIALIZED", "Contract has not been initialized")
	case errors.Is(err, service.ErrContractInitialized):
		writeError(w, http.StatusConflict, "CONTRACT_ALREADY_INITIALIZED", "Contract is already initialized")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Password verification failed")
	case errors.Is(err, service.ErrCommunityRecipe):
		writeError(w, http.StatusConflict, "COMMUNITY_RECIPE", "Recipe belongs to the community")
	case errors.Is(err, service.ErrNotCommunityRecipe):
		// Editing a privately owned recipe through the community path is an
		// authorization failure, the same as a wrong password on it.
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Recipe is not open to community edits")
	case errors.Is(err, service.ErrNotForSale):
		writeError(w, http.StatusConflict, "NOT_FOR_SALE", "Recipe is not for sale")
	case errors.Is(err, service.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "INSUFFICIENT_BALANCE", "Buyer balance does not cover the price")
	case errors.Is(err, service.ErrSelfPurchase):
		writeError(w, http.StatusConflict, "SELF_PURCHASE", "Buyer already owns this recipe")
	case errors.Is(err, service.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, "ALREADY_OWNED", "Buyer already owns this recipe")
	case errors.Is(err, service.ErrBalanceOverflow):
		writeError(w, http.StatusUnprocessableEntity, "BALANCE_OVERFLOW", "Balance would overflow")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
