package main

import (
	"fmt"
	"log"

	"github.com/basketlens/backend/config"
	httpDelivery "github.com/basketlens/backend/internal/delivery/http"
	"github.com/basketlens/backend/internal/infrastructure/cache"
	"github.com/basketlens/backend/internal/infrastructure/spoonacular"
	"github.com/basketlens/backend/internal/infrastructure/storefront"
	"github.com/basketlens/backend/internal/logging"
	"github.com/basketlens/backend/internal/usecase"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLoggerWithService("basketlens-backend", cfg.Log.Level, cfg.Log.Format)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"storefront":  cfg.Storefront.SearchURL,
		"headless":    cfg.Storefront.Headless,
	}).Info("Starting BasketLens Backend v1.0.0")

	// Initialize infrastructure dependencies
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

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		recipes.SetDebug(true)
		logger.Debug("Spoonacular client debug mode enabled")
	}

	if cfg.Spoonacular.APIKey == "" {
		logger.Warn("Spoonacular API key not configured, recipe carts will fail")
	}

	runs := cache.NewMemoryRunStore()
	defer runs.Close()

	// Initialize usecase layer
	discoveryService := usecase.NewDiscoveryService(
		launcher,
		recipes,
		runs,
		usecase.DiscoveryServiceConfig{
			InterIngredientDelay: cfg.Discovery.InterIngredientDelay,
			RunTTL:               cfg.Runs.TTL,
		},
		logger,
	)

	logger.WithFields(logrus.Fields{
		"settle":      cfg.Discovery.SearchSettleDelay.String(),
		"pace":        cfg.Discovery.InterIngredientDelay.String(),
		"max_results": cfg.Discovery.MaxResultsConsidered,
		"run_ttl":     cfg.Runs.TTL.String(),
	}).Info("Discovery configured")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(discoveryService, cfg.Presentation.CurrencySymbol)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
