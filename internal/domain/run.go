package domain

import "time"

// DiscoveryRun is a finished discovery invocation, as stored and served by the API
type DiscoveryRun struct {
	ID          string            `json:"id"`
	RecipeID    string            `json:"recipeId,omitempty"`
	Ingredients []IngredientQuery `json:"ingredients"`
	Result      *CartResult       `json:"result"`
	Failure     string            `json:"failure,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  time.Time         `json:"finishedAt"`
}

// DiscoverRequest is the HTTP body for starting a discovery run
type DiscoverRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}
