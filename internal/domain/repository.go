package domain

import (
	"context"
	"time"
)

// Storefront is one live browser session bound to a retailer's search page.
// A Storefront is owned by a single discovery run and must not be shared.
type Storefront interface {
	Open(ctx context.Context) error
	Search(ctx context.Context, query IngredientQuery) (RawMatch, error)
	Close() error
}

// StorefrontLauncher creates a fresh, unopened Storefront for each run
type StorefrontLauncher interface {
	NewSession() Storefront
}

// RunRepository stores finished discovery runs
type RunRepository interface {
	Save(ctx context.Context, run *DiscoveryRun, ttl time.Duration) error
	Get(ctx context.Context, id string) (*DiscoveryRun, error)
}

// RecipeSource resolves a recipe to its ordered ingredient names
type RecipeSource interface {
	IngredientNames(ctx context.Context, recipeID string) ([]string, error)
}
