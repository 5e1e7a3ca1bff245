package usecase

import (
	"github.com/basketlens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartAggregator collects one CartLine per searched ingredient and totals them.
// It belongs to a single discovery run and is not safe for concurrent use.
type CartAggregator struct {
	lines      []domain.CartLine
	incomplete bool
	final      *domain.CartResult
	log        logrus.FieldLogger
}

// NewCartAggregator creates an empty aggregator
func NewCartAggregator(log logrus.FieldLogger) *CartAggregator {
	return &CartAggregator{log: log}
}

// Record parses the match's price and appends a line in call order.
// Calls after Finalize are ignored.
func (a *CartAggregator) Record(ingredient domain.IngredientQuery, match domain.RawMatch) domain.CartLine {
	line := domain.CartLine{
		Ingredient:  ingredient,
		ProductName: match.ProductName,
		Price:       domain.ParsePrice(match.PriceText),
	}

	if a.final != nil {
		a.log.WithField("ingredient", ingredient).Warn("line recorded after cart was finalized; ignoring")
		return line
	}

	a.lines = append(a.lines, line)
	return line
}

// MarkIncomplete flags the result as partial. It has no effect after Finalize.
func (a *CartAggregator) MarkIncomplete() {
	if a.final == nil {
		a.incomplete = true
	}
}

// Finalize totals every available price. The result is computed once; later
// calls return the same value.
func (a *CartAggregator) Finalize() domain.CartResult {
	if a.final != nil {
		return *a.final
	}

	total := domain.NewPrice(decimal.Zero)
	priced := 0
	for _, line := range a.lines {
		if line.Price.Valid {
			total = total.Add(line.Price)
			priced++
		}
	}

	lines := a.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}

	a.final = &domain.CartResult{
		Lines:       lines,
		Total:       total,
		PricedCount: priced,
		Complete:    !a.incomplete,
	}
	return *a.final
}
