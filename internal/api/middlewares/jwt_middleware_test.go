package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/auth"
	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

// userDB serves a single user by id; every other DbClient method is unused
// by the middleware.
type userDB struct {
	core.DbClient
	user *models.User
}

func (d *userDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if d.user != nil && d.user.ID == id {
		return d.user, nil
	}
	return nil, core.ErrNotFound
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok, "user must be in context past the authenticator")
		assert.Equal(t, wantUser, user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorMissingHeader(t *testing.T) {
	a := NewAuthenticator(auth.NewTokenService("secret", ""), &userDB{}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	a.Middleware(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Could not validate credentials", body["detail"])
}

func TestAuthenticatorRejectsGarbageToken(t *testing.T) {
	a := NewAuthenticator(auth.NewTokenService("secret", ""), &userDB{}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	a.Middleware(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsDeletedUser(t *testing.T) {
	tokens := auth.NewTokenService("secret", "")
	a := NewAuthenticator(tokens, &userDB{}, zap.NewNop().Sugar())

	token, err := tokens.IssueBearerToken("ghost", time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	a.Middleware(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorAttachesUser(t *testing.T) {
	tokens := auth.NewTokenService("secret", "")
	db := &userDB{user: &models.User{ID: "user-1", IsVerified: true}}
	a := NewAuthenticator(tokens, db, zap.NewNop().Sugar())

	token, err := tokens.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	a.Middleware(okHandler(t, "user-1")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireVerified(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("unverified gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), userContextKey, &models.User{ID: "user-1"})
		RequireVerified(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Email not verified", body["detail"])
	})

	t.Run("verified passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), userContextKey, &models.User{ID: "user-1", IsVerified: true})
		RequireVerified(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no user gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		RequireVerified(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
