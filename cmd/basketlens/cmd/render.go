package cmd

import (
	"fmt"
	"io"

	"github.com/basketlens/backend/internal/domain"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// renderCart prints one row per ingredient and a footer with the total.
// runErr is the reason a partial result stopped early, if any.
func renderCart(out io.Writer, result *domain.CartResult, runErr error) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Ingredient", "Product", "Price"})
	for _, line := range result.Lines {
		product := "-"
		if line.ProductName != nil {
			product = *line.ProductName
		}
		t.AppendRow(table.Row{line.Ingredient, product, line.Price.String()})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("Total (%d priced)", result.PricedCount), result.Total.String()})
	t.Render()

	switch {
	case !result.Complete:
		fmt.Fprintf(out, "Incomplete: stopped after %d ingredients", len(result.Lines))
		if runErr != nil {
			fmt.Fprintf(out, ": %v", runErr)
		}
		fmt.Fprintln(out)
	case result.AllUnavailable():
		fmt.Fprintln(out, "No prices found for any ingredient.")
	}
}
