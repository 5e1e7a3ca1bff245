package domain

// IngredientQuery is a plain ingredient name; the unit of work of a discovery run
type IngredientQuery string

// RawMatch is what the storefront returned for one query. Either field is nil when the
// storefront had no product element or no price element.
type RawMatch struct {
	ProductName *string `json:"productName,omitempty"`
	PriceText   *string `json:"priceText,omitempty"`
}

// CartLine is one priced ingredient in input order
type CartLine struct {
	Ingredient  IngredientQuery `json:"ingredient"`
	ProductName *string         `json:"productName"`
	Price       Price           `json:"price"`
}

// CartResult is the output of a discovery run
type CartResult struct {
	Lines       []CartLine `json:"lines"`
	Total       Price      `json:"total"`
	PricedCount int        `json:"pricedCount"`
	Complete    bool       `json:"complete"`
}

// AllUnavailable reports whether lines were recorded but none of them could be priced.
func (r *CartResult) AllUnavailable() bool {
	return len(r.Lines) > 0 && r.PricedCount == 0
}

// Matched reports whether the storefront returned a product for this line.
func (l CartLine) Matched() bool {
	return l.ProductName != nil
}
