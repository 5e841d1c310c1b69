package service

import (
	"context"
	"fmt"
	"math"

	"github.com/simmr/simmr/internal/auth"
	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// InitContract creates the funding-gate singleton. It can succeed at most
// once per store lifetime; the record is never mutated afterwards.
func (s *Market) InitContract(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Update(ctx, func(tx store.Tx) error {
		_, ok, err := store.Contracts.Get(tx, store.ContractID)
		if err != nil {
			return err
		}
		if ok {
			return ErrContractInitialized
		}
		contract := &model.Contract{Email: email, PasswordHash: hash}
		_, err = store.Contracts.Put(tx, store.ContractID, contract)
		return err
	})
}

// FundUser credits a user's balance by amount, gated by the contract
// password. The addition is checked; overflow is rejected, not wrapped.
func (s *Market) FundUser(ctx context.Context, userID, amount uint64, password string) (*model.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var view *model.PublicUser
	err := s.store.Update(ctx, func(tx store.Tx) error {
		contract, ok, err := store.Contracts.Get(tx, store.ContractID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrContractNotInitialized
		}

		match, err := auth.VerifyPassword(password, contract.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !match {
			return ErrUnauthorized
		}

		user, ok, err := store.Users.Get(tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		if user.Balance > math.MaxUint64-amount {
			return ErrBalanceOverflow
		}

		user.Balance += amount
		if _, err := store.Users.Put(tx, userID, user); err != nil {
			return err
		}
		view = user.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncFundingApplied()
	s.publish(events.MarketEvent{
		Type:    events.TypeFunding,
		ActorID: userID,
		Amount:  amount,
	})
	return view, nil
}
