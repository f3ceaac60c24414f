package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/config"
)

func TestLoadLocalAuthProvider_SeedsDefaultUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	p, err := LoadLocalAuthProvider(path, internal.NewNopLogger())
	require.NoError(t, err)

	u, err := p.ValidateTokenLocal("MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = p.ValidateTokenLocal("nope")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// seeded file is read back on the next start
	p2, err := LoadLocalAuthProvider(path, internal.NewNopLogger())
	require.NoError(t, err)
	_, err = p2.ValidateTokenLocal("MOCK-TOKEN")
	assert.NoError(t, err)
}

func TestRemoteAuthProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(internal.User{ID: "remote-1", Name: "Remote"})
	}))
	defer srv.Close()

	p := NewRemoteAuthProvider(srv.URL, internal.NewNopLogger())
	u, err := p.ValidateTokenRemote(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "remote-1", u.ID)

	_, err = p.ValidateTokenRemote(context.Background(), "bad")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := NewLocalAuthProvider([]internal.User{{ID: "u1", Token: "T"}}, internal.NewNopLogger())
	r := gin.New()
	r.Use(AuthMiddleware(provider, &config.Config{Env: "development"}))
	r.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, u.ID)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer T")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
