package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagops/demo-infra-definitions/flagconfig"
)

func newTestPoller(doc flagconfig.Document) *Poller {
	p := NewPoller("http://localhost:2772", "flagdemo", "dev", "app-config", 30*time.Second)
	p.apply(doc)
	return p
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRoutes(newTestPoller(flagconfig.Default()))

	w, body := doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["configLoaded"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHomeEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("feature enabled", func(t *testing.T) {
		router := setupRoutes(newTestPoller(flagconfig.Document{
			FeatureXEnabled: true,
			APIURL:          "https://internal.example.com",
		}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "ENABLED")
		assert.Contains(t, w.Body.String(), "https://internal.example.com")
	})

	t.Run("feature disabled", func(t *testing.T) {
		router := setupRoutes(newTestPoller(flagconfig.Default()))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "DISABLED")
	})
}

func TestConfigEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRoutes(newTestPoller(flagconfig.Default()))

	w, body := doRequest(t, router, "/config")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "appconfig-agent", body["source"])

	cfg, ok := body["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://api.example.com", cfg["apiUrl"])
	assert.Equal(t, float64(100), cfg["maxUsers"])
}

func TestUsersEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("forbidden when feature disabled", func(t *testing.T) {
		router := setupRoutes(newTestPoller(flagconfig.Document{FeatureXEnabled: false}))

		w, body := doRequest(t, router, "/users")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, body["error"], "disabled")
	})

	t.Run("full list when feature enabled", func(t *testing.T) {
		router := setupRoutes(newTestPoller(flagconfig.Document{
			FeatureXEnabled: true,
			MaxUsers:        100,
		}))

		w, body := doRequest(t, router, "/users")
		assert.Equal(t, http.StatusOK, w.Code)

		users, ok := body["users"].([]any)
		require.True(t, ok)
		assert.Len(t, users, len(mockUsers))
		assert.Equal(t, float64(len(mockUsers)), body["totalCount"])

		first, ok := users[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Alice Johnson", first["name"])
	})

	t.Run("maxUsers does not truncate the list", func(t *testing.T) {
		router := setupRoutes(newTestPoller(flagconfig.Document{
			FeatureXEnabled: true,
			MaxUsers:        2,
		}))

		w, body := doRequest(t, router, "/users")
		assert.Equal(t, http.StatusOK, w.Code)

		users, ok := body["users"].([]any)
		require.True(t, ok)
		assert.Len(t, users, len(mockUsers))
	})
}
