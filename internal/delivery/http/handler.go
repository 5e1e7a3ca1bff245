package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/basketlens/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// CartService is what the handlers need from the discovery use case
type CartService interface {
	StartRun(ctx context.Context, ingredients []string) (*domain.DiscoveryRun, error)
	StartRecipeRun(ctx context.Context, recipeID string) (*domain.DiscoveryRun, error)
	GetRun(ctx context.Context, id string) (*domain.DiscoveryRun, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cartService    CartService
	currencySymbol string
}

// NewHandler creates a new HTTP handler
func NewHandler(cartService CartService, currencySymbol string) *Handler {
	return &Handler{
		cartService:    cartService,
		currencySymbol: currencySymbol,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "basketlens-backend",
		"version": "1.0.0",
	})
}

// Discover prices the ingredients in the request body
func (h *Handler) Discover(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price discovery not configured"})
		return
	}

	var req domain.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request body must be JSON with an \"ingredients\" array",
			"code":  "invalid_request",
		})
		return
	}

	run, err := h.cartService.StartRun(c.Request.Context(), req.Ingredients)
	h.respondRun(c, run, err)
}

// DiscoverRecipe prices the ingredients of a Spoonacular recipe
func (h *Handler) DiscoverRecipe(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price discovery not configured"})
		return
	}

	run, err := h.cartService.StartRecipeRun(c.Request.Context(), c.Param("id"))
	h.respondRun(c, run, err)
}

// GetRun returns a previously finished run
func (h *Handler) GetRun(c *gin.Context) {
	if h.cartService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price discovery not configured"})
		return
	}

	run, err := h.cartService.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, newRunView(run, h.currencySymbol))
}

// respondRun writes a run, including partial runs that came back with an error
func (h *Handler) respondRun(c *gin.Context, run *domain.DiscoveryRun, err error) {
	if err != nil {
		h.respondError(c, err, run)
		return
	}
	c.JSON(http.StatusOK, newRunView(run, h.currencySymbol))
}

func (h *Handler) respondError(c *gin.Context, err error, run *domain.DiscoveryRun) {
	_ = c.Error(err)

	status, code := statusFor(err)
	body := gin.H{
		"error": err.Error(),
		"code":  code,
	}
	if run != nil {
		body["run"] = newRunView(run, h.currencySymbol)
	}
	c.JSON(status, body)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyRequest):
		return http.StatusBadRequest, "empty_request"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound, "run_not_found"
	case errors.Is(err, domain.ErrSessionUnavailable):
		return http.StatusBadGateway, "session_unavailable"
	case errors.Is(err, domain.ErrRecipeUnavailable):
		return http.StatusBadGateway, "recipe_unavailable"
	case errors.Is(err, domain.ErrCanceled):
		return http.StatusServiceUnavailable, "canceled"
	}
	return http.StatusInternalServerError, "internal_error"
}
