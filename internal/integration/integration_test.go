// Package integration runs two API instances against shared PostgreSQL and
// Redis containers, the way the service is deployed.
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/bootstrap"
	"github.com/pageza/recipebook/backend/internal/server"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func postgresConfig(t *testing.T, pgURL, redisAddr string) *config.Config {
	u, err := url.Parse(pgURL)
	require.NoError(t, err)
	password, _ := u.User.Password()

	return &config.Config{
		Env:            config.Test,
		ServerHost:     "127.0.0.1",
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:8081"},
		StoreBackend:   "sql",
		Database: config.Database{
			Driver:   "postgres",
			Host:     u.Hostname(),
			Port:     u.Port(),
			User:     u.User.Username(),
			Password: password,
			Name:     strings.TrimPrefix(u.Path, "/"),
			SSLMode:  "disable",
		},
		Redis:             config.Redis{URL: "redis://" + redisAddr},
		JWT:               config.JWT{Secret: "integration-secret", TTL: time.Hour},
		RecipeCreateLimit: 3,
		RecipeEditLimit:   10,
	}
}

func startInstance(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	app, err := bootstrap.Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	srv := httptest.NewServer(server.New(cfg, app.Services, zap.NewNop()).Router())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestTwoInstancesShareStateAndEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := postgresConfig(t, testhelpers.SetupPostgres(t), testhelpers.SetupRedis(t))

	a := startInstance(t, cfg)
	b := startInstance(t, cfg)

	resp, body := call(t, a, http.MethodPost, "/api/v1/auth/register", "", types.CredentialsRequest{Email: "cook@example.com", Password: "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var session types.AuthResponse
	require.NoError(t, json.Unmarshal(body, &session))

	// the session works on the other instance
	resp, _ = call(t, b, http.MethodGet, "/api/v1/profile", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a stream on instance A sees a recipe created through instance B
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL+"/api/v1/recipes/stream?access_token="+session.Token, nil)
	require.NoError(t, err)
	stream, err := a.Client().Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)

	lines := make(chan string, 32)
	go func() {
		defer close(lines)
		r := bufio.NewReader(stream.Body)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data:") {
				lines <- strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}()

	waitFor := func(match func(types.RecipeListSnapshot) bool) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case data, ok := <-lines:
				require.True(t, ok, "stream closed")
				var snapshot types.RecipeListSnapshot
				require.NoError(t, json.Unmarshal([]byte(data), &snapshot))
				if match(snapshot) {
					return
				}
			case <-timeout:
				t.Fatal("timed out waiting for snapshot")
			}
		}
	}

	waitFor(func(s types.RecipeListSnapshot) bool { return len(s.Recipes) == 0 })

	resp, body = call(t, b, http.MethodPost, "/api/v1/recipes", session.Token, types.RecipeRequest{Name: "Pie"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Remaining"))
	var pie types.RecipeDetail
	require.NoError(t, json.Unmarshal(body, &pie))

	waitFor(func(s types.RecipeListSnapshot) bool { return len(s.Recipes) == 1 && s.Recipes[0].Name == "Pie" })

	resp, _ = call(t, b, http.MethodPost, "/api/v1/recipes/"+pie.ID+"/favorite", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	waitFor(func(s types.RecipeListSnapshot) bool { return len(s.Favorites) == 1 && s.Favorites[0] == pie.ID })

	// logout on A revokes the token on B
	resp, _ = call(t, a, http.MethodPost, "/api/v1/auth/logout", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, b, http.MethodGet, "/api/v1/profile", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecipeCreationRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := postgresConfig(t, testhelpers.SetupPostgres(t), testhelpers.SetupRedis(t))
	srv := startInstance(t, cfg)

	resp, body := call(t, srv, http.MethodPost, "/api/v1/auth/register", "", types.CredentialsRequest{Email: "busy@example.com", Password: "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var session types.AuthResponse
	require.NoError(t, json.Unmarshal(body, &session))

	for i := 0; i < cfg.RecipeCreateLimit; i++ {
		resp, _ = call(t, srv, http.MethodPost, "/api/v1/recipes", session.Token, types.RecipeRequest{Name: "r"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/recipes", session.Token, types.RecipeRequest{Name: "one too many"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/limits/recipes", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var quota struct {
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(body, &quota))
	assert.Equal(t, 0, quota.Remaining)
}
