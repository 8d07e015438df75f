package domain

import "context"

// CatalogClient defines the backend catalog operations used by the fridge page.
// Session credentials are attached by the implementation.
type CatalogClient interface {
	ListProducts(ctx context.Context, day Day) ([]Product, error)
	ListRules(ctx context.Context, day Day) (*RuleSet, error)
	// SearchCatalog returns an empty slice, not an error, when nothing matches
	SearchCatalog(ctx context.Context, query string) ([]SearchResult, error)
	// AddProduct returns ErrDuplicateProduct when the product is already stored
	AddProduct(ctx context.Context, day Day, productURL string) error
	DeleteProduct(ctx context.Context, day Day, productID string) error
	SubmitSkinType(ctx context.Context, skinType string) error
}

// PreferencesStore persists the theme and day preferences across reloads
type PreferencesStore interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}
