package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/simmr/simmr/internal/handler/dto"
	"github.com/simmr/simmr/internal/middleware"
	"github.com/simmr/simmr/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	market *service.Market
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(market *service.Market, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		market: market,
		logger: logger,
	}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateUserName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_NAME", err.Error())
		return
	}
	if err := middleware.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", err.Error())
		return
	}
	if err := middleware.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PASSWORD", err.Error())
		return
	}

	user, err := h.market.CreateUser(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Get handles GET /api/v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be an unsigned integer")
		return
	}

	user, err := h.market.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
