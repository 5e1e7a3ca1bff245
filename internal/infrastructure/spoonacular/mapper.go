package spoonacular

import "strings"

// Recipe is the subset of Spoonacular's recipe information we read
type Recipe struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}

// Ingredient is one extended ingredient entry. Only the name feeds price discovery.
type Ingredient struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientNames maps a recipe to its ingredient names, dropping blanks and
// repeated names while keeping first-seen order.
func IngredientNames(recipe *Recipe) []string {
	if recipe == nil {
		return nil
	}

	seen := make(map[string]bool, len(recipe.ExtendedIngredients))
	names := make([]string, 0, len(recipe.ExtendedIngredients))
	for _, ing := range recipe.ExtendedIngredients {
		name := strings.TrimSpace(ing.Name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}
