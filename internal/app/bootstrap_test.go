package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intern-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "intern-match", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{AccessSecret: "test-secret", AccessExpiresIn: time.Minute},
	}
}

func TestNew_RoutesAndAuth(t *testing.T) {
	c := NewContainerWith(testConfig(), nil, nil, nil)
	a := New(c)
	require.NotNil(t, a.Fiber)
	assert.Nil(t, a.Scheduler)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/daily", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/daily", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := json.Marshal(map[string]any{
		"profile": map[string]any{"skills": []string{"go"}},
		"listing": map[string]any{"id": "x", "title": "Backend Intern", "required_skills": []string{"go"}},
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/match/score", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_SchedulerFollowsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler = config.SchedulerConfig{Enabled: true, Spec: "0 5 * * *", Concurrency: 2}

	a := New(NewContainerWith(cfg, nil, nil, nil))
	assert.NotNil(t, a.Scheduler)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(" :9090 ")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr("  ")
	assert.Error(t, err)
}
