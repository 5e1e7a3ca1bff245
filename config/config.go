package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Storefront   StorefrontConfig
	Discovery    DiscoveryConfig
	Spoonacular  SpoonacularConfig
	Runs         RunsConfig
	Presentation PresentationConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorefrontConfig describes the retailer search page and the elements scraped from it
type StorefrontConfig struct {
	SearchURL             string        `mapstructure:"search_url"`
	SearchInputSelector   string        `mapstructure:"search_input_selector"`
	ProductTitleSelector  string        `mapstructure:"product_title_selector"`
	ProductTitleAttribute string        `mapstructure:"product_title_attribute"` // empty means element text
	PriceSelector         string        `mapstructure:"price_selector"`
	// ResultCardSelector matches one element per search result. When set, the
	// title and price selectors are read inside each card; leave it empty only
	// while max_results_considered is 1, since page-wide lists are paired by position.
	ResultCardSelector    string        `mapstructure:"result_card_selector"`
	Headless              bool          `mapstructure:"headless"`
	NavigationTimeout     time.Duration `mapstructure:"navigation_timeout"`
}

// DiscoveryConfig holds the pacing of a discovery run
type DiscoveryConfig struct {
	SearchSettleDelay    time.Duration `mapstructure:"search_settle_delay"`
	InterIngredientDelay time.Duration `mapstructure:"inter_ingredient_delay"`
	MaxResultsConsidered int           `mapstructure:"max_results_considered"`
}

// SpoonacularConfig holds recipe API configuration
type SpoonacularConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// RunsConfig controls how long finished runs are kept for the API
type RunsConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// PresentationConfig holds display-only settings
type PresentationConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/basketlens/")

	// Environment variable settings
	v.SetEnvPrefix("BASKETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Storefront defaults (Aldi UK)
	v.SetDefault("storefront.search_url", "https://groceries.aldi.co.uk/en-GB/groceries")
	v.SetDefault("storefront.search_input_selector", "#search-input")
	v.SetDefault("storefront.product_title_selector", `[data-qa="search-product-title"]`)
	v.SetDefault("storefront.product_title_attribute", "title")
	v.SetDefault("storefront.price_selector", "span.h4")
	v.SetDefault("storefront.result_card_selector", "")
	v.SetDefault("storefront.headless", true)
	v.SetDefault("storefront.navigation_timeout", "30s")

	// Discovery defaults
	v.SetDefault("discovery.search_settle_delay", "3s")
	v.SetDefault("discovery.inter_ingredient_delay", "5s")
	v.SetDefault("discovery.max_results_considered", 1)

	// Spoonacular defaults
	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")

	v.SetDefault("runs.ttl", "24h")
	v.SetDefault("presentation.currency_symbol", "£")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storefront.SearchURL == "" {
		return fmt.Errorf("storefront search URL is required (set BASKETLENS_STOREFRONT_SEARCH_URL)")
	}

	if config.Storefront.SearchInputSelector == "" ||
		config.Storefront.ProductTitleSelector == "" ||
		config.Storefront.PriceSelector == "" {
		return fmt.Errorf("storefront selectors must not be empty")
	}

	if config.Discovery.SearchSettleDelay < 0 || config.Discovery.InterIngredientDelay < 0 {
		return fmt.Errorf("discovery delays must not be negative")
	}

	if config.Discovery.MaxResultsConsidered < 1 {
		return fmt.Errorf("max results considered must be at least 1, got: %d", config.Discovery.MaxResultsConsidered)
	}

	if config.Log.Format != "json" && config.Log.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", config.Log.Format)
	}

	return nil
}
