package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/basketlens/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DiscoveryServiceConfig holds configuration for the discovery service
type DiscoveryServiceConfig struct {
	InterIngredientDelay time.Duration
	RunTTL               time.Duration
}

// DiscoveryService finds the storefront price of each ingredient, one at a time,
// over a single browser session per run.
type DiscoveryService struct {
	launcher domain.StorefrontLauncher
	recipes  domain.RecipeSource
	runs     domain.RunRepository
	pacing   time.Duration
	runTTL   time.Duration
	log      logrus.FieldLogger
	newID    func() string
	now      func() time.Time
	wait     func(ctx context.Context, d time.Duration) error
}

// NewDiscoveryService creates a discovery service. recipes and runs may be nil
// when recipe lookups or run storage are not needed.
func NewDiscoveryService(
	launcher domain.StorefrontLauncher,
	recipes domain.RecipeSource,
	runs domain.RunRepository,
	config DiscoveryServiceConfig,
	log logrus.FieldLogger,
) *DiscoveryService {
	runTTL := config.RunTTL
	if runTTL == 0 {
		runTTL = 24 * time.Hour
	}

	return &DiscoveryService{
		launcher: launcher,
		recipes:  recipes,
		runs:     runs,
		pacing:   config.InterIngredientDelay,
		runTTL:   runTTL,
		log:      log.WithField("component", "discovery"),
		newID:    uuid.NewString,
		now:      time.Now,
		wait:     sleepContext,
	}
}

// Discover searches every ingredient in order and returns the priced cart.
//
// An empty list fails with ErrEmptyRequest before any browser is started. If the
// session is lost (ErrSessionUnavailable) or ctx is canceled between ingredients
// (ErrCanceled), the lines gathered so far are returned alongside the error with
// Complete set to false. The session is closed exactly once on every path.
func (s *DiscoveryService) Discover(ctx context.Context, ingredients []domain.IngredientQuery) (*domain.CartResult, error) {
	queries := CleanIngredients(ingredients)
	if len(queries) == 0 {
		return nil, domain.ErrEmptyRequest
	}

	cart := NewCartAggregator(s.log)
	session := s.launcher.NewSession()

	runErr := s.searchAll(ctx, session, queries, cart)

	if err := session.Close(); err != nil {
		s.log.WithError(err).Warn("failed to release storefront session")
	}

	if runErr != nil {
		cart.MarkIncomplete()
	}
	result := cart.Finalize()

	entry := s.log.WithFields(logrus.Fields{
		"requested": len(queries),
		"recorded":  len(result.Lines),
		"priced":    result.PricedCount,
		"total":     result.Total.String(),
	})
	if runErr != nil {
		entry.WithError(runErr).Warn("discovery run aborted")
	} else {
		entry.Info("discovery run finished")
	}

	return &result, runErr
}

// searchAll opens the session and runs the sequential search loop. It returns
// the first session-level failure or cancellation.
func (s *DiscoveryService) searchAll(
	ctx context.Context,
	session domain.Storefront,
	queries []domain.IngredientQuery,
	cart *CartAggregator,
) error {
	if err := session.Open(ctx); err != nil {
		if !errors.Is(err, domain.ErrSessionUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
		}
		return err
	}

	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w after %d of %d ingredients: %w", domain.ErrCanceled, i, len(queries), err)
		}

		match, err := session.Search(ctx, query)
		if err != nil {
			if !errors.Is(err, domain.ErrSessionUnavailable) {
				err = fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
			}
			return err
		}

		line := cart.Record(query, match)
		s.log.WithFields(logrus.Fields{
			"ingredient": query,
			"matched":    line.Matched(),
			"price":      line.Price.String(),
			"position":   i + 1,
		}).Info("ingredient priced")

		// The pause runs after the search has settled, so it is idle time for the storefront.
		if i < len(queries)-1 && s.pacing > 0 {
			if err := s.wait(ctx, s.pacing); err != nil {
				return fmt.Errorf("%w after %d of %d ingredients: %w", domain.ErrCanceled, i+1, len(queries), err)
			}
		}
	}
	return nil
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DiscoverRecipe resolves a recipe's ingredient names and discovers their prices.
func (s *DiscoveryService) DiscoverRecipe(ctx context.Context, recipeID string) ([]domain.IngredientQuery, *domain.CartResult, error) {
	names, err := s.recipeIngredients(ctx, recipeID)
	if err != nil {
		return nil, nil, err
	}
	queries := ToQueries(names)
	result, err := s.Discover(ctx, queries)
	return queries, result, err
}

func (s *DiscoveryService) recipeIngredients(ctx context.Context, recipeID string) ([]string, error) {
	if s.recipes == nil {
		return nil, fmt.Errorf("%w: no recipe source configured", domain.ErrRecipeUnavailable)
	}
	names, err := s.recipes.IngredientNames(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrRecipeUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRecipeUnavailable, err)
	}
	return names, nil
}

// StartRun runs Discover and stores the outcome as a DiscoveryRun. The run is
// returned (and stored) for partial failures too; only ErrEmptyRequest and
// recipe lookup failures produce no run.
func (s *DiscoveryService) StartRun(ctx context.Context, ingredients []string) (*domain.DiscoveryRun, error) {
	return s.record(ctx, "", ToQueries(ingredients), func() (*domain.CartResult, error) {
		return s.Discover(ctx, ToQueries(ingredients))
	})
}

// StartRecipeRun is StartRun for a recipe's ingredient list.
func (s *DiscoveryService) StartRecipeRun(ctx context.Context, recipeID string) (*domain.DiscoveryRun, error) {
	names, err := s.recipeIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	queries := ToQueries(names)
	return s.record(ctx, recipeID, queries, func() (*domain.CartResult, error) {
		return s.Discover(ctx, queries)
	})
}

func (s *DiscoveryService) record(
	ctx context.Context,
	recipeID string,
	ingredients []domain.IngredientQuery,
	discover func() (*domain.CartResult, error),
) (*domain.DiscoveryRun, error) {
	run := &domain.DiscoveryRun{
		ID:          s.newID(),
		RecipeID:    recipeID,
		Ingredients: CleanIngredients(ingredients),
		StartedAt:   s.now(),
	}

	result, err := discover()
	if errors.Is(err, domain.ErrEmptyRequest) {
		return nil, err
	}
	run.Result = result
	run.FinishedAt = s.now()
	if err != nil {
		run.Failure = err.Error()
	}

	if s.runs != nil {
		// The run outlives the request, so store it even if ctx is done.
		if saveErr := s.runs.Save(context.WithoutCancel(ctx), run, s.runTTL); saveErr != nil {
			s.log.WithError(saveErr).WithField("run_id", run.ID).Warn("failed to store discovery run")
		}
	}
	return run, err
}

// GetRun returns a stored run
func (s *DiscoveryService) GetRun(ctx context.Context, id string) (*domain.DiscoveryRun, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.runs == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runs.Get(ctx, id)
}
