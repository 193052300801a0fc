package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	middleware "github.com/notpasha/astro/internal/api/middlewares"
	"github.com/notpasha/astro/internal/auth"
	"github.com/notpasha/astro/internal/models"
	"github.com/notpasha/astro/internal/services"
)

type AuthHandler struct {
	users     *services.UserService
	tokens    *auth.TokenService
	bearerTTL time.Duration
	log       *zap.SugaredLogger
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenService, bearerTTL time.Duration, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, bearerTTL: bearerTTL, log: log}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	AccessToken string              `json:"access_token"`
	Provider    models.AuthProvider `json:"provider"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		writeDetail(w, http.StatusBadRequest, "Email and a password of at least 8 characters are required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.issueToken(w, user)
}

func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req socialLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Provider.Valid() || req.Provider == models.ProviderEmail {
		writeDetail(w, http.StatusBadRequest, "Invalid provider")
		return
	}

	user, err := h.users.SocialLogin(r.Context(), req.AccessToken, req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	h.issueToken(w, user)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid token")
		return
	}

	if _, err := h.users.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// Me returns the authenticated user. Behind the Authenticator only; an
// unverified account may still read itself.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, user *models.User) {
	token, err := h.tokens.IssueBearerToken(user.ID, h.bearerTTL)
	if err != nil {
		h.log.Errorw("issue bearer token", "user_id", user.ID, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
