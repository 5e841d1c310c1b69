package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/simmr/simmr/internal/auth"
	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// BuyRecipeInput defines input for an ownership transfer.
type BuyRecipeInput struct {
	RecipeID uint64
	BuyerID  uint64
	Password string
}

// BuyRecipe transfers ownership of a recipe to the buyer and settles the
// price: the seller's collection loses the recipe and gains the price, the
// buyer's collection gains the recipe and loses the price, and the recipe
// record points at the new owner. Preconditions are checked in a fixed
// order, first failure wins; all five record writes commit together or not
// at all, so a failed purchase leaves every record byte-identical.
func (s *Market) BuyRecipe(ctx context.Context, input BuyRecipeInput) (*model.PublicUser, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObservePurchaseDuration(time.Since(start))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		buyerView *model.PublicUser
		price     uint64
		sellerID  uint64
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		recipe, ok, err := store.Recipes.Get(tx, input.RecipeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRecipeNotFound
		}
		if recipe.IsCommunity {
			return ErrCommunityRecipe
		}
		if !recipe.IsForSale {
			return ErrNotForSale
		}

		buyer, ok, err := store.Users.Get(tx, input.BuyerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		match, err := auth.VerifyPassword(input.Password, buyer.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !match {
			return ErrUnauthorized
		}

		if buyer.Balance < recipe.Price {
			return ErrInsufficientBalance
		}
		if buyer.ID == recipe.OwnerID {
			return ErrSelfPurchase
		}
		// A recipe lives in exactly one owned collection, so this only
		// trips if that invariant was already broken elsewhere.
		if buyer.Owns(recipe.ID) {
			return ErrAlreadyOwned
		}

		seller, ok, err := store.Users.Get(tx, recipe.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		if seller.Balance > math.MaxUint64-recipe.Price {
			return ErrBalanceOverflow
		}

		seller.RemoveRecipe(recipe.ID)
		seller.Balance += recipe.Price
		buyer.AddRecipe(recipe.ID)
		buyer.Balance -= recipe.Price
		sellerID = recipe.OwnerID
		recipe.OwnerID = buyer.ID

		if _, err := store.Users.Put(tx, seller.ID, seller); err != nil {
			return err
		}
		if _, err := store.Users.Put(tx, buyer.ID, buyer); err != nil {
			return err
		}
		if _, err := store.Recipes.Put(tx, recipe.ID, recipe); err != nil {
			return err
		}

		price = recipe.Price
		buyerView = buyer.Public()
		return nil
	})
	if err != nil {
		s.metrics.IncPurchaseRejected()
		return nil, err
	}

	s.metrics.IncPurchaseCompleted()
	s.invalidateRecipe(ctx, input.RecipeID)
	s.publish(events.MarketEvent{
		Type:           events.TypePurchase,
		RecipeID:       input.RecipeID,
		ActorID:        input.BuyerID,
		CounterpartyID: sellerID,
		Amount:         price,
	})
	return buyerView, nil
}
