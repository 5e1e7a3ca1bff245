package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/basketlens/backend/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client fetches recipe ingredient lists from the Spoonacular API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
	log         logrus.FieldLogger
}

// NewClient creates a new Spoonacular API client
func NewClient(apiKey, baseURL string, log logrus.FieldLogger) *Client {
	// Free plan allows roughly one request per second
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		log:         log.WithField("component", "spoonacular"),
	}
}

// SetDebug toggles logging of raw response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// IngredientNames returns the ingredient names of a recipe in the order the recipe lists them
func (c *Client) IngredientNames(ctx context.Context, recipeID string) ([]string, error) {
	recipe, err := c.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return IngredientNames(recipe), nil
}

// GetRecipe retrieves a recipe's information including its extended ingredients
func (c *Client) GetRecipe(ctx context.Context, recipeID string) (*Recipe, error) {
	if _, err := strconv.Atoi(recipeID); err != nil {
		return nil, fmt.Errorf("%w: recipe id %q is not numeric", domain.ErrInvalidRequest, recipeID)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", domain.ErrRecipeUnavailable)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("apiKey", c.apiKey)
	params.Add("includeNutrition", "false")
	reqURL := fmt.Sprintf("%s/recipes/%s/information?%s", c.baseURL, url.PathEscape(recipeID), params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrRecipeUnavailable, err)
	}
	if c.debug {
		c.log.WithField("body", string(body)).Debug("recipe response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: recipe %s not found", domain.ErrRecipeUnavailable, recipeID)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{"status": resp.StatusCode, "recipe_id": recipeID}).Warn("recipe API error")
		return nil, fmt.Errorf("%w: status %d", domain.ErrRecipeUnavailable, resp.StatusCode)
	}

	var recipe Recipe
	if err := json.Unmarshal(body, &recipe); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRecipeUnavailable, err)
	}

	c.log.WithFields(logrus.Fields{
		"recipe_id":   recipeID,
		"ingredients": len(recipe.ExtendedIngredients),
	}).Info("recipe fetched")
	return &recipe, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "BasketLens/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecipeUnavailable, err)
	}
	return resp, nil
}
