package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/basketlens/backend/config"
	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/infrastructure/cache"
	"github.com/basketlens/backend/internal/logging"
	"github.com/basketlens/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// setupTestRouter creates a test router around the given service
func setupTestRouter(svc CartService) *gin.Engine {
	handler := NewHandler(svc, "£")
	return SetupRouter(testConfig(), handler, logging.Discard())
}

// fakeStorefront serves canned matches and can lose its connection on a given search
type fakeStorefront struct {
	matches    map[domain.IngredientQuery]domain.RawMatch
	failOn     int
	searches   int
	closeCalls int
}

func (f *fakeStorefront) Open(ctx context.Context) error { return nil }

func (f *fakeStorefront) Search(ctx context.Context, q domain.IngredientQuery) (domain.RawMatch, error) {
	f.searches++
	if f.searches == f.failOn {
		return domain.RawMatch{}, fmt.Errorf("%w: target closed", domain.ErrSessionUnavailable)
	}
	return f.matches[q], nil
}

func (f *fakeStorefront) Close() error {
	f.closeCalls++
	return nil
}

type fakeLauncher struct{ session *fakeStorefront }

func (l *fakeLauncher) NewSession() domain.Storefront { return l.session }

type fakeRecipes struct{ names []string }

func (r *fakeRecipes) IngredientNames(ctx context.Context, id string) ([]string, error) {
	if id == "404" {
		return nil, fmt.Errorf("%w: recipe 404 not found", domain.ErrRecipeUnavailable)
	}
	return r.names, nil
}

func strPtr(s string) *string { return &s }

func newRealService(session *fakeStorefront) (*usecase.DiscoveryService, *cache.MemoryRunStore) {
	store := cache.NewMemoryRunStore()
	svc := usecase.NewDiscoveryService(
		&fakeLauncher{session: session},
		&fakeRecipes{names: []string{"milk", "bread"}},
		store,
		usecase.DiscoveryServiceConfig{RunTTL: time.Hour},
		logging.Discard(),
	)
	return svc, store
}

func groceries() map[domain.IngredientQuery]domain.RawMatch {
	return map[domain.IngredientQuery]domain.RawMatch{
		"milk":    {ProductName: strPtr("Cowbelle Whole Milk"), PriceText: strPtr("£1.45")},
		"bread":   {ProductName: strPtr("Village Bakery White Loaf"), PriceText: strPtr("£0.75")},
		"saffron": {ProductName: strPtr("Saffron Strands")},
	}
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(nil)

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "basketlens-backend", response["service"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(nil)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestDiscoverEndpoint(t *testing.T) {
	t.Run("prices every ingredient", func(t *testing.T) {
		session := &fakeStorefront{matches: groceries()}
		svc, _ := newRealService(session)
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":["milk","saffron","bread"]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view RunView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.NotEmpty(t, view.ID)
		require.Len(t, view.Lines, 3)
		assert.Equal(t, "milk", view.Lines[0].Ingredient)
		assert.Equal(t, "£1.45", view.Lines[0].DisplayPrice)
		assert.Equal(t, "unavailable", view.Lines[1].DisplayPrice)
		assert.False(t, view.Lines[1].Price.Valid)
		assert.Equal(t, "2.20", view.Total.String())
		assert.Equal(t, "£2.20", view.DisplayTotal)
		assert.Equal(t, 2, view.PricedCount)
		assert.False(t, view.Incomplete)
		assert.Equal(t, 1, session.closeCalls)
	})

	t.Run("bare amounts in JSON", func(t *testing.T) {
		svc, _ := newRealService(&fakeStorefront{matches: groceries()})
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":["milk","saffron"]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, "1.45", raw["total"])
		lines := raw["lines"].([]interface{})
		assert.Nil(t, lines[1].(map[string]interface{})["price"])
	})

	t.Run("empty ingredient list", func(t *testing.T) {
		session := &fakeStorefront{matches: groceries()}
		svc, _ := newRealService(session)
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "empty_request", response["code"])
		assert.NotContains(t, response, "run")
		assert.Equal(t, 0, session.searches)
		assert.Equal(t, 0, session.closeCalls)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc, _ := newRealService(&fakeStorefront{})
		router := setupTestRouter(svc)

		for _, body := range []string{`not json`, `{}`, `{"ingredients":"milk"}`} {
			w := postJSON(router, "/api/v1/cart/discover", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("body %s: Status = %d, want %d", body, w.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("session lost returns the partial run", func(t *testing.T) {
		session := &fakeStorefront{matches: groceries(), failOn: 2}
		svc, store := newRealService(session)
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":["milk","bread","saffron"]}`)
		require.Equal(t, http.StatusBadGateway, w.Code)

		var response struct {
			Error string  `json:"error"`
			Code  string  `json:"code"`
			Run   RunView `json:"run"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "session_unavailable", response.Code)
		assert.True(t, response.Run.Incomplete)
		require.Len(t, response.Run.Lines, 1)
		assert.Equal(t, "milk", response.Run.Lines[0].Ingredient)
		assert.Equal(t, 1, session.closeCalls)

		// the partial run is stored too
		_, err := store.Get(context.Background(), response.Run.ID)
		assert.NoError(t, err)
	})

	t.Run("service not configured", func(t *testing.T) {
		router := setupTestRouter(nil)
		w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":["milk"]}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRecipeCartEndpoint(t *testing.T) {
	t.Run("prices recipe ingredients", func(t *testing.T) {
		svc, _ := newRealService(&fakeStorefront{matches: groceries()})
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/recipes/716429/cart", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view RunView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "716429", view.RecipeID)
		assert.Equal(t, []string{"milk", "bread"}, view.Ingredients)
		assert.Equal(t, "£2.20", view.DisplayTotal)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		svc, _ := newRealService(&fakeStorefront{})
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/recipes/404/cart", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "recipe_unavailable")
	})
}

func TestGetRunEndpoint(t *testing.T) {
	svc, _ := newRealService(&fakeStorefront{matches: groceries()})
	router := setupTestRouter(svc)

	w := postJSON(router, "/api/v1/cart/discover", `{"ingredients":["bread"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created RunView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("returns stored run", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cart/runs/"+created.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got RunView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "£0.75", got.DisplayTotal)
	})

	t.Run("unknown run", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cart/runs/does-not-exist", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "run_not_found")
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(nil)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrEmptyRequest, http.StatusBadRequest, "empty_request"},
		{domain.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{domain.ErrRunNotFound, http.StatusNotFound, "run_not_found"},
		{fmt.Errorf("%w: lost", domain.ErrSessionUnavailable), http.StatusBadGateway, "session_unavailable"},
		{domain.ErrRecipeUnavailable, http.StatusBadGateway, "recipe_unavailable"},
		{fmt.Errorf("%w: %w", domain.ErrCanceled, context.Canceled), http.StatusServiceUnavailable, "canceled"},
		{fmt.Errorf("weird"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code := statusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
