// Package model defines domain entities for the marketplace.
package model

// User is a marketplace participant. The stored record carries the
// Argon2id password hash; it never leaves the process in API responses.
type User struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"password_hash"`
	Email        string   `json:"email"`
	Balance      uint64   `json:"balance"`
	Recipes      []uint64 `json:"recipes"`
}

// PublicUser is the externally visible view of a User.
type PublicUser struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Balance uint64   `json:"balance"`
	Recipes []uint64 `json:"recipes"`
}

// Public returns the view of the user safe for API responses.
func (u *User) Public() *PublicUser {
	recipes := make([]uint64, len(u.Recipes))
	copy(recipes, u.Recipes)
	return &PublicUser{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Balance: u.Balance,
		Recipes: recipes,
	}
}

// Owns reports whether the user's owned-recipe list contains id.
func (u *User) Owns(id uint64) bool {
	for _, r := range u.Recipes {
		if r == id {
			return true
		}
	}
	return false
}

// AddRecipe appends id to the owned-recipe list if not already present.
func (u *User) AddRecipe(id uint64) {
	if u.Owns(id) {
		return
	}
	u.Recipes = append(u.Recipes, id)
}

// RemoveRecipe drops id from the owned-recipe list, preserving order.
func (u *User) RemoveRecipe(id uint64) {
	kept := u.Recipes[:0]
	for _, r := range u.Recipes {
		if r != id {
			kept = append(kept, r)
		}
	}
	u.Recipes = kept
}
