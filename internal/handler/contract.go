package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/simmr/simmr/internal/handler/dto"
	"github.com/simmr/simmr/internal/middleware"
	"github.com/simmr/simmr/internal/service"
)

// ContractHandler handles HTTP requests for the contract singleton.
type ContractHandler struct {
	market *service.Market
	logger *slog.Logger
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(market *service.Market, logger *slog.Logger) *ContractHandler {
	return &ContractHandler{
		market: market,
		logger: logger,
	}
}

// Init handles POST /api/v1/contract.
// The contract can be initialized exactly once.
func (h *ContractHandler) Init(w http.ResponseWriter, r *http.Request) {
	var req dto.InitContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
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

	if err := h.market.InitContract(r.Context(), req.Email, req.Password); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("contract_initialized")

	writeJSON(w, http.StatusCreated, map[string]string{"status": "initialized"})
}

// Fund handles POST /api/v1/users/{id}/fund.
// Funding is gated by the contract admin password.
func (h *ContractHandler) Fund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be an unsigned integer")
		return
	}

	var req dto.FundUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.market.FundUser(r.Context(), id, req.Amount, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_funded",
		"user_id", user.ID,
		"amount", req.Amount,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
