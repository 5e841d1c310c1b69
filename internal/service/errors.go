package service

import "errors"

// Market errors. Handlers map these onto the wire taxonomy: not-found,
// invalid-payload, unauthorized, already-initialized. Oversize records are
// not listed here; they surface as *store.TooLargeError so operators can
// tell schema growth apart from caller mistakes.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrRecipeNotFound         = errors.New("recipe not found")
	ErrContractNotInitialized = errors.New("contract not initialized")
	ErrContractInitialized    = errors.New("contract already initialized")
	ErrUnauthorized           = errors.New("password does not match")
	ErrCommunityRecipe        = errors.New("community recipes cannot be used here")
	ErrNotCommunityRecipe     = errors.New("recipe is not a community recipe")
	ErrNotForSale             = errors.New("recipe is not for sale")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrSelfPurchase           = errors.New("cannot buy your own recipe")
	ErrAlreadyOwned           = errors.New("recipe already in buyer's collection")
	ErrBalanceOverflow        = errors.New("balance would overflow")
)
