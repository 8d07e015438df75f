package domain

import "errors"

var (
	// ErrNetwork is returned when a catalog request fails or answers with a non-2xx status
	ErrNetwork = errors.New("catalog request failed")

	// ErrEmptyQuery is returned when a search is attempted without input
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrDuplicateProduct is returned when the product is already in the fridge
	ErrDuplicateProduct = errors.New("product already exists")

	// ErrProductNotFound is returned when a product id is not in the active day
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidSkinType is returned when onboarding receives an unknown skin type
	ErrInvalidSkinType = errors.New("invalid skin type")

	// ErrPreferencesUnavailable is returned when the preferences store cannot be read or written
	ErrPreferencesUnavailable = errors.New("preferences store unavailable")
)
