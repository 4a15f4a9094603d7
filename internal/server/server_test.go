package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/store/gormstore"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	s := gormstore.New(testhelpers.SetupTestDatabase(t))
	hub := realtime.NewHub()
	t.Cleanup(func() { hub.Close() })

	cfg := &config.Config{
		ServerHost:     "localhost",
		ServerPort:     "8080",
		AllowedOrigins: []string{"http://localhost:8081"},
	}
	return New(cfg, api.Services{
		Auth:      service.NewAuthService(s, service.NewMemoryDenylist(), "test-secret", time.Hour, log),
		Profiles:  service.NewProfileService(s, hub, log),
		Recipes:   service.NewRecipeService(s, hub, nil, log),
		Favorites: service.NewFavoriteService(s, hub, log),
		Photos:    service.NewPhotoService(nil, s, time.Minute),
		Health:    s,
	}, log)
}

func TestNew(t *testing.T) {
	server := newTestServer(t)
	assert.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.http.Addr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:8081", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	server := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- server.Serve(ln) }()
	baseURL := "http://" + ln.Addr().String()

	body, err := json.Marshal(types.CredentialsRequest{Email: "cook@example.com", Password: "secret123"})
	require.NoError(t, err)
	resp, err := http.Post(baseURL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var session types.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	stream, err := http.Get(baseURL + "/api/v1/recipes/stream?access_token=" + session.Token)
	require.NoError(t, err)
	defer stream.Body.Close()
	first, err := bufio.NewReader(stream.Body).ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "event:recipes"), first)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, server.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
