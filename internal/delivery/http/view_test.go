package http

import (
	"testing"
	"time"

	"github.com/basketlens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		price  domain.Price
		symbol string
		want   string
	}{
		{"pounds", domain.NewPrice(decimal.RequireFromString("3.5")), "£", "£3.50"},
		{"no symbol", domain.NewPrice(decimal.RequireFromString("12")), "", "12.00"},
		{"zero is a price", domain.NewPrice(decimal.Zero), "£", "£0.00"},
		{"unavailable", domain.Unavailable, "£", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPrice(tt.price, tt.symbol); got != tt.want {
				t.Errorf("formatPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRunView(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("BST", 3600))

	t.Run("maps a finished run", func(t *testing.T) {
		run := &domain.DiscoveryRun{
			ID:          "run-1",
			Ingredients: []domain.IngredientQuery{"eggs", "saffron"},
			Result: &domain.CartResult{
				Lines: []domain.CartLine{
					{Ingredient: "eggs", ProductName: strPtr("Free Range Eggs"), Price: domain.NewPrice(decimal.RequireFromString("1.29"))},
					{Ingredient: "saffron", ProductName: strPtr("Saffron Strands"), Price: domain.Unavailable},
				},
				Total:       domain.NewPrice(decimal.RequireFromString("1.29")),
				PricedCount: 1,
				Complete:    true,
			},
			StartedAt:  started,
			FinishedAt: started.Add(12 * time.Second),
		}

		view := newRunView(run, "£")

		assert.Equal(t, []string{"eggs", "saffron"}, view.Ingredients)
		require.Len(t, view.Lines, 2)
		assert.Equal(t, "£1.29", view.Lines[0].DisplayPrice)
		assert.Equal(t, "unavailable", view.Lines[1].DisplayPrice)
		assert.Equal(t, "Saffron Strands", *view.Lines[1].ProductName)
		assert.Equal(t, "£1.29", view.DisplayTotal)
		assert.False(t, view.Incomplete)
		assert.False(t, view.AllUnavailable)
		assert.Equal(t, "2026-03-01T08:30:00Z", view.StartedAt)
		assert.Equal(t, "2026-03-01T08:30:12Z", view.FinishedAt)
	})

	t.Run("all unavailable", func(t *testing.T) {
		run := &domain.DiscoveryRun{
			ID:          "run-2",
			Ingredients: []domain.IngredientQuery{"unobtainium"},
			Result: &domain.CartResult{
				Lines:    []domain.CartLine{{Ingredient: "unobtainium", Price: domain.Unavailable}},
				Total:    domain.NewPrice(decimal.Zero),
				Complete: true,
			},
		}

		view := newRunView(run, "£")
		assert.True(t, view.AllUnavailable)
		assert.Equal(t, "£0.00", view.DisplayTotal)
	})

	t.Run("run without a result", func(t *testing.T) {
		run := &domain.DiscoveryRun{ID: "run-3", Failure: "storefront session unavailable"}

		view := newRunView(run, "£")
		assert.True(t, view.Incomplete)
		assert.NotNil(t, view.Lines)
		assert.Empty(t, view.Lines)
		assert.Equal(t, "unavailable", view.DisplayTotal)
		assert.Equal(t, "storefront session unavailable", view.Failure)
	})
}
