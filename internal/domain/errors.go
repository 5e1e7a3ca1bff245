package domain

import "errors"

var (
	// ErrEmptyRequest is returned when a discovery run is requested with no ingredients
	ErrEmptyRequest = errors.New("no ingredients supplied")

	// ErrSessionUnavailable is returned when the browser backend or storefront page cannot be reached
	ErrSessionUnavailable = errors.New("storefront session unavailable")

	// ErrSessionClosed is returned when a storefront session is used after it was closed
	ErrSessionClosed = errors.New("storefront session closed")

	// ErrCanceled is returned when a discovery run is stopped by its caller between ingredients
	ErrCanceled = errors.New("discovery run canceled")

	// ErrRecipeUnavailable is returned when a recipe's ingredient list cannot be fetched
	ErrRecipeUnavailable = errors.New("recipe ingredients unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRunNotFound is returned when a stored discovery run does not exist or has expired
	ErrRunNotFound = errors.New("discovery run not found")
)
