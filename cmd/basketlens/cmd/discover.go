package cmd

import (
	"errors"
	"os"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover <ingredient>...",
	Short: "Search each ingredient and print the cheapest matching product and the basket total.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}

		result, err := svc.Discover(cmd.Context(), usecase.ToQueries(args))
		if errors.Is(err, domain.ErrEmptyRequest) {
			return errors.New("nothing to price: every ingredient was blank")
		}
		if result != nil {
			renderCart(os.Stdout, result, err)
		}
		return err
	},
}
