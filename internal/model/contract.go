package model

// Contract is the funding-gate singleton. It occupies the fixed identity 0
// in its own partition, is created at most once and never mutated after.
type Contract struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
