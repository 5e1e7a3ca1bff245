package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recipeCmd)
}

var recipeCmd = &cobra.Command{
	Use:   "recipe <spoonacular recipe id>",
	Short: "Price every ingredient of a Spoonacular recipe.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}

		queries, result, err := svc.DiscoverRecipe(cmd.Context(), args[0])
		if result == nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Recipe %s: %d ingredients\n", args[0], len(queries))
		renderCart(os.Stdout, result, err)
		return err
	},
}
