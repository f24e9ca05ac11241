package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/config"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestLocalAuthProvider_JWT(t *testing.T) {
	p := NewLocalAuthProvider("s3cret", "", internal.NewNopLogger())

	tok := signToken(t, "s3cret", jwt.MapClaims{"sub": "user-42", "email": "a@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	u, err := p.ValidateTokenLocal(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", u.ID)
	assert.Equal(t, "a@example.com", u.Email)

	_, err = p.ValidateTokenLocal(signToken(t, "other", jwt.MapClaims{"sub": "user-42"}))
	assert.Error(t, err)

	_, err = p.ValidateTokenLocal(signToken(t, "s3cret", jwt.MapClaims{"sub": "user-42", "exp": time.Now().Add(-time.Hour).Unix()}))
	assert.Error(t, err)

	_, err = p.ValidateTokenLocal(signToken(t, "s3cret", jwt.MapClaims{"email": "a@example.com"}))
	assert.Error(t, err)
}

func TestLocalAuthProvider_DevToken(t *testing.T) {
	p := NewLocalAuthProvider("", "MOCK-TOKEN", internal.NewNopLogger())
	u, err := p.ValidateTokenLocal("MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, DemoUser.ID, u.ID)

	_, err = p.ValidateTokenLocal("nope")
	assert.Error(t, err)
}

func TestRemoteAuthProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" || r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"remote-1","email":"r@example.com"}`))
	}))
	defer srv.Close()

	p := NewRemoteAuthProvider(srv.URL, "anon", internal.NewNopLogger())
	u, err := p.ValidateTokenRemote(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "remote-1", u.ID)

	_, err = p.ValidateTokenRemote(context.Background(), "bad")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: "development"}
	r := gin.New()
	r.Use(AuthMiddleware(NewLocalAuthProvider("", "MOCK-TOKEN", internal.NewNopLogger()), cfg))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, c.MustGet(UserKey).(*internal.User))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer MOCK-TOKEN")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
}
