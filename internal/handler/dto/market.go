// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/model"
)

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// UserResponse represents a user in API responses. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Balance uint64   `json:"balance"`
	Recipes []uint64 `json:"recipes"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Price       uint64 `json:"price"`
	OwnerID     uint64 `json:"owner_id"`
	IsCommunity bool   `json:"is_community"`
	IsForSale   bool   `json:"is_for_sale"`
}

// EditRecipeRequest represents the request body for editing an owned recipe.
type EditRecipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsCommunity bool   `json:"is_community"`
	IsForSale   bool   `json:"is_for_sale"`
	Price       uint64 `json:"price"`
	Password    string `json:"password"`
}

// EditCommunityRecipeRequest represents the request body for editing a
// community recipe's description.
type EditCommunityRecipeRequest struct {
	Description string `json:"description"`
}

// BuyRecipeRequest represents the request body for purchasing a recipe.
type BuyRecipeRequest struct {
	BuyerID  uint64 `json:"buyer_id"`
	Password string `json:"password"`
}

// AddReviewRequest represents the request body for reviewing a recipe.
type AddReviewRequest struct {
	Review string `json:"review"`
}

// RecipeResponse represents a recipe in API responses.
type RecipeResponse struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       uint64   `json:"price"`
	OwnerID     uint64   `json:"owner_id"`
	IsCommunity bool     `json:"is_community"`
	IsForSale   bool     `json:"is_for_sale"`
	Reviews     []string `json:"reviews"`
}

// RecipeListResponse represents a list of recipes.
type RecipeListResponse struct {
	Data []RecipeResponse `json:"data"`
}

// ReviewsResponse represents the reviews of a single recipe.
type ReviewsResponse struct {
	RecipeID uint64   `json:"recipe_id"`
	Reviews  []string `json:"reviews"`
}

// InitContractRequest represents the request body for initializing the
// contract singleton.
type InitContractRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FundUserRequest represents the request body for funding a user balance.
type FundUserRequest struct {
	Amount   uint64 `json:"amount"`
	Password string `json:"password"`
}

// EventResponse represents a persisted market event.
type EventResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RecipeID       uint64    `json:"recipe_id,omitempty"`
	ActorID        uint64    `json:"actor_id"`
	CounterpartyID uint64    `json:"counterparty_id,omitempty"`
	Amount         uint64    `json:"amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventListResponse represents a page of recent market events.
type EventListResponse struct {
	Data []EventResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a public user view to a UserResponse DTO.
func ToUserResponse(user *model.PublicUser) *UserResponse {
	recipes := user.Recipes
	if recipes == nil {
		recipes = []uint64{}
	}
	return &UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Balance: user.Balance,
		Recipes: recipes,
	}
}

// ToRecipeResponse converts a Recipe model to a RecipeResponse DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	reviews := recipe.Reviews
	if reviews == nil {
		reviews = []string{}
	}
	return &RecipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Category:    recipe.Category,
		Description: recipe.Description,
		Price:       recipe.Price,
		OwnerID:     recipe.OwnerID,
		IsCommunity: recipe.IsCommunity,
		IsForSale:   recipe.IsForSale,
		Reviews:     reviews,
	}
}

// ToRecipeListResponse converts a slice of recipes to a list DTO.
func ToRecipeListResponse(recipes []*model.Recipe) *RecipeListResponse {
	responses := make([]RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		responses[i] = *ToRecipeResponse(recipe)
	}
	return &RecipeListResponse{Data: responses}
}

// ToEventResponse converts a stored market event to an EventResponse DTO.
func ToEventResponse(event events.StoredEvent) EventResponse {
	return EventResponse{
		ID:             event.ID,
		Type:           event.Type,
		RecipeID:       event.RecipeID,
		ActorID:        event.ActorID,
		CounterpartyID: event.CounterpartyID,
		Amount:         event.Amount,
		OccurredAt:     event.OccurredAt,
	}
}

// ToEventListResponse converts stored events to a list DTO.
func ToEventListResponse(stored []events.StoredEvent) *EventListResponse {
	responses := make([]EventResponse, len(stored))
	for i, event := range stored {
		responses[i] = ToEventResponse(event)
	}
	return &EventListResponse{Data: responses}
}
