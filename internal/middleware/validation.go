package middleware

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Field length limits. Entity records are stored with a hard byte bound,
// so the per-field caps keep well-formed input from tripping it.
const (
	// MaxNameLength is the maximum length for a user name.
	MaxNameLength = 64

	// MaxEmailLength is the maximum length for an email address.
	MaxEmailLength = 128

	// MaxPasswordLength is the maximum length for a raw password.
	MaxPasswordLength = 128

	// MaxTitleLength is the maximum length for a recipe title.
	MaxTitleLength = 120

	// MaxCategoryLength is the maximum length for a recipe category.
	MaxCategoryLength = 60

	// MaxDescriptionLength is the maximum length for a recipe description.
	MaxDescriptionLength = 400

	// MaxReviewLength is the maximum length for a single review.
	MaxReviewLength = 200
)

// Validation errors.
var (
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrEmailInvalid       = errors.New("email address is invalid")
	ErrEmailTooLong       = errors.New("email address exceeds maximum length")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooLong    = errors.New("password exceeds maximum length")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrCategoryTooLong    = errors.New("category exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrReviewRequired     = errors.New("review text is required")
	ErrReviewTooLong      = errors.New("review exceeds maximum length")
)

// emailPattern is a pragmatic email shape check, not a full RFC parse.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUserName validates a user display name.
func ValidateUserName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword validates a raw password before hashing.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateTitle validates a recipe title.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateCategory validates a recipe category. Empty is allowed.
func ValidateCategory(category string) error {
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	return nil
}

// ValidateDescription validates a recipe description. Empty is allowed.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidateReview validates a single review text.
func ValidateReview(review string) error {
	if review == "" {
		return ErrReviewRequired
	}
	if utf8.RuneCountInString(review) > MaxReviewLength {
		return ErrReviewTooLong
	}
	return nil
}
