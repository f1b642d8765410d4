package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vondralink/backend/config"
	"github.com/vondralink/backend/internal/domain"
	"github.com/vondralink/backend/internal/infrastructure/activity"
	"github.com/vondralink/backend/internal/usecase"
)

// stubBackend implements domain.SearchBackend with canned responses.
type stubBackend struct {
	candidates   []domain.Candidate
	recs         json.RawMessage
	personalized json.RawMessage
}

func (s *stubBackend) Search(_ context.Context, _ domain.SearchQuery) ([]domain.Candidate, error) {
	return s.candidates, nil
}

func (s *stubBackend) Recommendations(_ context.Context, _ string) (json.RawMessage, error) {
	return s.recs, nil
}

func (s *stubBackend) PersonalizedRecommendations(_ context.Context, _ domain.PersonalizedRequest) (json.RawMessage, error) {
	return s.personalized, nil
}

func setupTestRouter(t *testing.T, backend *stubBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := log.New(io.Discard)

	store, err := activity.NewMemoryStore(100, 50, logger)
	require.NoError(t, err)

	pairing := usecase.NewPairingService(logger)
	search := usecase.NewSearchService(backend, nil, pairing, store, usecase.SearchServiceConfig{}, logger)
	recommendations := usecase.NewRecommendationService(backend, store, logger)

	handler := NewHandler(search, recommendations, store, logger)
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:*"}

	return SetupRouter(cfg, handler)
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, &stubBackend{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "vondralink-backend", body["service"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubBackend{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	backend := &stubBackend{candidates: []domain.Candidate{
		{Title: "Premium Desk", Price: "899", Score: "0.9"},
		{Title: "Smart Desk", Price: "349", Score: "0.8"},
	}}
	router := setupTestRouter(t, backend)

	t.Run("returns pairs", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"query": "standing desk"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Pairs  []domain.TradeOffPair `json:"pairs"`
			Count  int                   `json:"count"`
			UserID string                `json:"user_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Premium Desk", body.Pairs[0].Premium.Name)
		assert.NotEmpty(t, body.UserID, "anonymous searches get a minted id")
	})

	t.Run("echoes supplied user id", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"query": "standing desk", "user_id": "u-7"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u-7", body["user_id"])
	})

	t.Run("accepts budget", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"query": "standing desk", "budget_limit": 400}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Pairs []domain.TradeOffPair `json:"pairs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Pairs, 1)
		assert.Contains(t, body.Pairs[0].Smart.Description, "$51")
	})

	t.Run("rejects empty request", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid image encoding", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"image": "not-base64!!!"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("accepts data uri image", func(t *testing.T) {
		w := postJSON(router, "/api/v1/search", `{"image": "data:image/jpeg;base64,/9j/4A=="}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAnalyzeEndpointWithoutAnalyzer(t *testing.T) {
	router := setupTestRouter(t, &stubBackend{})

	w := postJSON(router, "/api/v1/search/analyze", `{"query": "noise cancelling headphones"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count, "missing analyzer degrades to empty, not an error")
}

func TestRecommendationsEndpoint(t *testing.T) {
	backend := &stubBackend{recs: json.RawMessage(`[{"title": "Lamp", "url": "https://shop.example/lamp"}]`)}
	router := setupTestRouter(t, backend)

	t.Run("returns normalized items", func(t *testing.T) {
		w := postJSON(router, "/api/v1/recommendations", `{"description": "cozy reading lamp"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Recommendations []domain.RecommendationItem `json:"recommendations"`
			Count           int                         `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Lamp", body.Recommendations[0].Title)
	})

	t.Run("requires description", func(t *testing.T) {
		w := postJSON(router, "/api/v1/recommendations", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPersonalizedRecommendationsEndpoint(t *testing.T) {
	backend := &stubBackend{personalized: json.RawMessage(`{"items": [{"title": "Pick"}]}`)}
	router := setupTestRouter(t, backend)

	w := postJSON(router, "/api/v1/recommendations/personalized", `{
		"user_id": "u-1",
		"answers": {"styleFocus": "neutral", "philosophy": "bifl", "treat": "upgrade"},
		"include_activity": false
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recommendations []domain.RecommendationItem `json:"recommendations"`
		UserID          string                      `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "Pick", body.Recommendations[0].Title)
	assert.Equal(t, "u-1", body.UserID)
}

func TestActivityEndpoints(t *testing.T) {
	router := setupTestRouter(t, &stubBackend{})

	t.Run("record search then read back", func(t *testing.T) {
		w := postJSON(router, "/api/v1/activity/search", `{"user_id": "u-1", "query": "espresso machine"}`)
		require.Equal(t, http.StatusOK, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/u-1", nil)
		get := httptest.NewRecorder()
		router.ServeHTTP(get, req)
		require.Equal(t, http.StatusOK, get.Code)

		var body struct {
			Activity domain.ActivityContext `json:"activity"`
		}
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Activity.TotalSearches)
		require.Len(t, body.Activity.RecentSearches, 1)
		assert.Equal(t, "espresso machine", body.Activity.RecentSearches[0])
	})

	t.Run("record search mints user id", func(t *testing.T) {
		w := postJSON(router, "/api/v1/activity/search", `{"query": "espresso machine"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["user_id"])
	})

	t.Run("record search requires query", func(t *testing.T) {
		w := postJSON(router, "/api/v1/activity/search", `{"user_id": "u-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("record views", func(t *testing.T) {
		w := postJSON(router, "/api/v1/activity/views", `{"user_id": "u-2", "views": [{"name": "Desk"}, {"name": "Desk"}]}`)
		require.Equal(t, http.StatusOK, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/u-2", nil)
		get := httptest.NewRecorder()
		router.ServeHTTP(get, req)
		require.Equal(t, http.StatusOK, get.Code)

		var body struct {
			Activity domain.ActivityContext `json:"activity"`
		}
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Activity.TotalViews)
		require.Len(t, body.Activity.TopProducts, 1)
		assert.Equal(t, 2, body.Activity.TopProducts[0].InteractionCount)
	})

	t.Run("record views requires at least one", func(t *testing.T) {
		w := postJSON(router, "/api/v1/activity/views", `{"user_id": "u-2", "views": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/activity/ghost", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("clear removes history", func(t *testing.T) {
		postJSON(router, "/api/v1/activity/search", `{"user_id": "u-3", "query": "q"}`)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/activity/u-3", nil)
		del := httptest.NewRecorder()
		router.ServeHTTP(del, req)
		require.Equal(t, http.StatusOK, del.Code)

		get := httptest.NewRecorder()
		router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/activity/u-3", nil))
		assert.Equal(t, http.StatusNotFound, get.Code)
	})
}

func TestSearchRecordsActivity(t *testing.T) {
	backend := &stubBackend{}
	router := setupTestRouter(t, backend)

	w := postJSON(router, "/api/v1/search", `{"query": "mechanical keyboard", "user_id": "u-9"}`)
	require.Equal(t, http.StatusOK, w.Code)

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/activity/u-9", nil))
	require.Equal(t, http.StatusOK, get.Code)

	var body struct {
		Activity domain.ActivityContext `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Activity.TotalSearches)
}
