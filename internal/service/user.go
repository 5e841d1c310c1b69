package service

import (
	"context"
	"fmt"

	"github.com/simmr/simmr/internal/auth"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name     string
	Password string
	Email    string
}

// CreateUser registers a new user with a zero balance and an empty
// collection. The identity is minted inside the unit of work, so a failed
// write consumes no identity.
func (s *Market) CreateUser(ctx context.Context, input CreateUserInput) (*model.PublicUser, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var view *model.PublicUser
	err = s.store.Update(ctx, func(tx store.Tx) error {
		id, err := tx.NextID()
		if err != nil {
			return err
		}
		user := &model.User{
			ID:           id,
			Name:         input.Name,
			PasswordHash: hash,
			Email:        input.Email,
			Balance:      0,
			Recipes:      []uint64{},
		}
		if _, err := store.Users.Put(tx, id, user); err != nil {
			return err
		}
		view = user.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncUserCreated()
	return view, nil
}

// GetUser returns the public view of a user.
func (s *Market) GetUser(ctx context.Context, id uint64) (*model.PublicUser, error) {
	var view *model.PublicUser
	err := s.store.View(ctx, func(tx store.Tx) error {
		user, ok, err := store.Users.Get(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		view = user.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
