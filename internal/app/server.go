package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notpasha/astro/internal/api/handlers"
	appMiddleware "github.com/notpasha/astro/internal/api/middlewares"
	"github.com/notpasha/astro/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, authn *appMiddleware.Authenticator, authHandler *handlers.AuthHandler, chatHandler *handlers.ChatHandler, subHandler *handlers.SubscriptionHandler) *Server {
	r := NewRouter(cfg, authn, authHandler, chatHandler, subHandler)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// NewRouter assembles the route tree. Split from NewServer so tests can
// drive it with httptest.
func NewRouter(cfg *config.Config, authn *appMiddleware.Authenticator, authHandler *handlers.AuthHandler, chatHandler *handlers.ChatHandler, subHandler *handlers.SubscriptionHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		// public endpoints
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/social-login", authHandler.SocialLogin)
		api.Get("/auth/verify-email", authHandler.VerifyEmail)
		api.Get("/subscriptions/plans", subHandler.Plans)

		// authenticated endpoints; verification not yet required
		api.Group(func(authed chi.Router) {
			authed.Use(authn.Middleware)
			authed.Get("/auth/me", authHandler.Me)

			// verified-only endpoints: everything touching chats or
			// subscription state
			authed.Group(func(verified chi.Router) {
				verified.Use(appMiddleware.RequireVerified)

				verified.Route("/chats", func(chats chi.Router) {
					chats.Get("/", chatHandler.List)
					chats.Post("/", chatHandler.Create)
					chats.Get("/{chatID}", chatHandler.Get)
					chats.Put("/{chatID}", chatHandler.Update)
					chats.Delete("/{chatID}", chatHandler.Delete)
					chats.Post("/{chatID}/messages", chatHandler.PostMessage)
				})

				verified.Post("/subscriptions/subscribe", subHandler.Subscribe)
			})
		})
	})

	return r
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }
