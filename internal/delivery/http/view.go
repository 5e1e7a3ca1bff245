package http

import (
	"time"

	"github.com/basketlens/backend/internal/domain"
)

// CartLineView is a cart line with its price formatted for display
type CartLineView struct {
	Ingredient   string       `json:"ingredient"`
	ProductName  *string      `json:"productName"`
	Price        domain.Price `json:"price"`
	DisplayPrice string       `json:"displayPrice"`
}

// RunView is the API representation of a discovery run
type RunView struct {
	ID             string         `json:"id"`
	RecipeID       string         `json:"recipeId,omitempty"`
	Ingredients    []string       `json:"ingredients"`
	Lines          []CartLineView `json:"lines"`
	Total          domain.Price   `json:"total"`
	DisplayTotal   string         `json:"displayTotal"`
	PricedCount    int            `json:"pricedCount"`
	Incomplete     bool           `json:"incomplete"`
	AllUnavailable bool           `json:"allUnavailable"`
	Failure        string         `json:"failure,omitempty"`
	StartedAt      string         `json:"startedAt"`
	FinishedAt     string         `json:"finishedAt"`
}

// formatPrice adds the currency symbol; the core only deals in bare amounts.
func formatPrice(p domain.Price, symbol string) string {
	if !p.Valid {
		return "unavailable"
	}
	return symbol + p.String()
}

func newRunView(run *domain.DiscoveryRun, symbol string) RunView {
	view := RunView{
		ID:          run.ID,
		RecipeID:    run.RecipeID,
		Ingredients: make([]string, len(run.Ingredients)),
		Lines:       []CartLineView{},
		Failure:     run.Failure,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  run.FinishedAt.UTC().Format(time.RFC3339),
	}
	for i, ing := range run.Ingredients {
		view.Ingredients[i] = string(ing)
	}

	if run.Result == nil {
		view.Incomplete = true
		view.DisplayTotal = formatPrice(view.Total, symbol)
		return view
	}

	for _, line := range run.Result.Lines {
		view.Lines = append(view.Lines, CartLineView{
			Ingredient:   string(line.Ingredient),
			ProductName:  line.ProductName,
			Price:        line.Price,
			DisplayPrice: formatPrice(line.Price, symbol),
		})
	}
	view.Total = run.Result.Total
	view.DisplayTotal = formatPrice(run.Result.Total, symbol)
	view.PricedCount = run.Result.PricedCount
	view.Incomplete = !run.Result.Complete
	view.AllUnavailable = run.Result.AllUnavailable()
	return view
}
