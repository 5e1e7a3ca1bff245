package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/basketlens/backend/internal/domain"
)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// CleanIngredient prepares an ingredient name for the storefront search box.
// Control characters are removed because a typed newline submits the form early.
func CleanIngredient(name string) domain.IngredientQuery {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = multiSpacePattern.ReplaceAllString(name, " ")
	return domain.IngredientQuery(strings.TrimSpace(name))
}

// CleanIngredients cleans every name and drops the ones left blank, keeping order.
func CleanIngredients(names []domain.IngredientQuery) []domain.IngredientQuery {
	queries := make([]domain.IngredientQuery, 0, len(names))
	for _, name := range names {
		if q := CleanIngredient(string(name)); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// ToQueries converts plain strings from a request body or recipe source
func ToQueries(names []string) []domain.IngredientQuery {
	queries := make([]domain.IngredientQuery, len(names))
	for i, name := range names {
		queries[i] = domain.IngredientQuery(name)
	}
	return queries
}
