package usecase

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrProfileNotFound = errors.New("ProfileNotFound")
	ErrListingNotFound = errors.New("Listing not found")
	ErrRateLimited     = errors.New("Too many refresh requests")
)
