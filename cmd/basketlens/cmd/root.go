package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/basketlens/backend/config"
	"github.com/basketlens/backend/internal/infrastructure/spoonacular"
	"github.com/basketlens/backend/internal/infrastructure/storefront"
	"github.com/basketlens/backend/internal/logging"
	"github.com/basketlens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	settleDelay time.Duration
	pacing      time.Duration
	maxResults  int
	headless    bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "basketlens",
	Short:         "basketlens prices a list of ingredients against the grocery storefront.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.DurationVar(&settleDelay, "settle", 3*time.Second, "wait after submitting a search before reading results")
	flags.DurationVar(&pacing, "pace", 5*time.Second, "delay after each search before the next one")
	flags.IntVar(&maxResults, "max-results", 1, "number of leading results to pick the cheapest from")
	flags.BoolVar(&headless, "headless", true, "run the browser without a window")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log each search to stderr")
}

// Execute runs the root command; SIGINT stops the run after the current ingredient.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newService builds the discovery service from config, with flags taking precedence
func newService(cmd *cobra.Command) (*usecase.DiscoveryService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	level := "warn"
	if verbose {
		level = "info"
	}
	logger := logging.NewLogger(level, "text")
	logger.SetOutput(os.Stderr)

	launcher := storefront.NewLauncher(storefront.Config{
		SearchURL:             cfg.Storefront.SearchURL,
		SearchInputSelector:   cfg.Storefront.SearchInputSelector,
		ProductTitleSelector:  cfg.Storefront.ProductTitleSelector,
		ProductTitleAttribute: cfg.Storefront.ProductTitleAttribute,
		PriceSelector:         cfg.Storefront.PriceSelector,
		ResultCardSelector:    cfg.Storefront.ResultCardSelector,
		Headless:              cfg.Storefront.Headless,
		NavigationTimeout:     cfg.Storefront.NavigationTimeout,
		SettleDelay:           cfg.Discovery.SearchSettleDelay,
		MaxResults:            cfg.Discovery.MaxResultsConsidered,
	}, logger)

	recipes := spoonacular.NewClient(cfg.Spoonacular.APIKey, cfg.Spoonacular.BaseURL, logger)

	return usecase.NewDiscoveryService(
		launcher,
		recipes,
		nil,
		usecase.DiscoveryServiceConfig{InterIngredientDelay: cfg.Discovery.InterIngredientDelay},
		logger,
	), nil
}

// applyFlags overrides config values only for flags set on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("settle") {
		cfg.Discovery.SearchSettleDelay = settleDelay
	}
	if flags.Changed("pace") {
		cfg.Discovery.InterIngredientDelay = pacing
	}
	if flags.Changed("max-results") && maxResults > 0 {
		cfg.Discovery.MaxResultsConsidered = maxResults
	}
	if flags.Changed("headless") {
		cfg.Storefront.Headless = headless
	}
}
