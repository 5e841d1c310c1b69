package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/simmr/simmr/internal/handler/dto"
	"github.com/simmr/simmr/internal/middleware"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	market *service.Market
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(market *service.Market, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		market: market,
		logger: logger,
	}
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if code, err := validateRecipeFields(req.Title, req.Category, req.Description); err != nil {
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	recipe, err := h.market.CreateRecipe(r.Context(), service.CreateRecipeInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     req.OwnerID,
		IsCommunity: req.IsCommunity,
		IsForSale:   req.IsForSale,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_created",
		"recipe_id", recipe.ID,
		"owner_id", recipe.OwnerID,
		"is_community", recipe.IsCommunity,
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	recipe, err := h.market.GetRecipe(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// List handles GET /api/v1/recipes.
// With for_sale=true only transferable recipes are returned; with a q
// parameter the listing becomes a title and category search.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		recipes []*model.Recipe
		err     error
	)
	switch {
	case query.Get("q") != "":
		recipes, err = h.market.SearchRecipes(r.Context(), query.Get("q"))
	case query.Get("for_sale") == "true":
		recipes, err = h.market.ListForSaleRecipes(r.Context())
	default:
		recipes, err = h.market.ListRecipes(r.Context())
	}
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Edit handles PATCH /api/v1/recipes/{id}.
func (h *RecipeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	var req dto.EditRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if code, err := validateRecipeFields(req.Title, "", req.Description); err != nil {
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	recipe, err := h.market.EditOwnedRecipe(r.Context(), service.EditOwnedRecipeInput{
		RecipeID:    id,
		Title:       req.Title,
		Description: req.Description,
		IsCommunity: req.IsCommunity,
		IsForSale:   req.IsForSale,
		Price:       req.Price,
		Password:    req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_edited", "recipe_id", recipe.ID)

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// EditCommunity handles PATCH /api/v1/recipes/{id}/description.
func (h *RecipeHandler) EditCommunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	var req dto.EditCommunityRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateDescription(req.Description); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DESCRIPTION", err.Error())
		return
	}

	recipe, err := h.market.EditCommunityRecipe(r.Context(), id, req.Description)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("community_recipe_edited", "recipe_id", recipe.ID)

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Buy handles POST /api/v1/recipes/{id}/buy.
func (h *RecipeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	var req dto.BuyRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	buyer, err := h.market.BuyRecipe(r.Context(), service.BuyRecipeInput{
		RecipeID: id,
		BuyerID:  req.BuyerID,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_purchased",
		"recipe_id", id,
		"buyer_id", buyer.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(buyer))
}

// AddReview handles POST /api/v1/recipes/{id}/reviews.
func (h *RecipeHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	var req dto.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateReview(req.Review); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REVIEW", err.Error())
		return
	}

	recipe, err := h.market.AddReview(r.Context(), id, req.Review)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("review_added", "recipe_id", recipe.ID)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// Reviews handles GET /api/v1/recipes/{id}/reviews.
func (h *RecipeHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Recipe ID must be an unsigned integer")
		return
	}

	reviews, err := h.market.Reviews(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	if reviews == nil {
		reviews = []string{}
	}

	writeJSON(w, http.StatusOK, dto.ReviewsResponse{RecipeID: id, Reviews: reviews})
}

// validateRecipeFields checks the free-text recipe fields, returning an
// error code usable in a 400 response.
func validateRecipeFields(title, category, description string) (string, error) {
	if err := middleware.ValidateTitle(title); err != nil {
		return "INVALID_TITLE", err
	}
	if err := middleware.ValidateCategory(category); err != nil {
		return "INVALID_CATEGORY", err
	}
	if err := middleware.ValidateDescription(description); err != nil {
		return "INVALID_DESCRIPTION", err
	}
	return "", nil
}
