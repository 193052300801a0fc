// Package middleware implements the per-request auth pipeline: bearer-token
// resolution and the verified-account gate.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

type ctxKey int

const userContextKey ctxKey = iota

// Authenticator resolves the Authorization header to a user for each
// request. Token failures and absent users alike yield 401; the log line
// carries the distinguishing detail, the response never does.
type Authenticator struct {
	tokens bearerValidator
	db     core.DbClient
	log    *zap.SugaredLogger
}

type bearerValidator interface {
	ValidateBearerToken(token string) (string, error)
}

func NewAuthenticator(tokens bearerValidator, db core.DbClient, log *zap.SugaredLogger) *Authenticator {
	return &Authenticator{tokens: tokens, db: db, log: log}
}

// Middleware validates the bearer token and attaches the resolved user to
// the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w)
			return
		}

		userID, err := a.tokens.ValidateBearerToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			a.log.Debugw("bearer token rejected", "error", err)
			unauthorized(w)
			return
		}

		user, err := a.db.GetUserByID(r.Context(), userID)
		if err != nil {
			// Covers deleted and never-existed accounts.
			a.log.Debugw("bearer token user lookup failed", "user_id", userID, "error", err)
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireVerified gates endpoints that touch chat or subscription state.
// Registration, login, and verification endpoints stay outside it:
// verification is how an account becomes eligible.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !user.IsVerified {
			writeDetail(w, http.StatusForbidden, "Email not verified")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the user attached by the Authenticator.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
