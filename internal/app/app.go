package app

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/api/handlers"
	middleware "github.com/notpasha/astro/internal/api/middlewares"
	"github.com/notpasha/astro/internal/astro"
	"github.com/notpasha/astro/internal/auth"
	"github.com/notpasha/astro/internal/config"
	"github.com/notpasha/astro/internal/core"
	db "github.com/notpasha/astro/internal/core/database"
	"github.com/notpasha/astro/internal/mailer"
	"github.com/notpasha/astro/internal/services"
	"github.com/notpasha/astro/internal/social"
)

type App struct {
	DBClient  core.DbClient
	Generator core.Generator
	Server    *Server
	log       *zap.SugaredLogger
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready")

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTSecretPrevious)

	var mail core.Mailer
	if cfg.SMTPServer != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		mail = mailer.NewLogMailer(log)
	}

	var generator core.Generator
	if cfg.AIAPIKey != "" {
		g, err := astro.NewGeminiResponder(appCtx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, err
		}
		generator = g
		log.Infow("using Gemini responder", "model", cfg.GenModel)
	} else {
		generator = astro.NewMockResponder()
	}

	userService := services.NewUserService(dbClient, tokens, mail, social.NewStubVerifier(), cfg.FrontendURL, log)
	chatService := services.NewChatService(dbClient, generator, cfg.MaxFreeChats, log)

	bearerTTL := time.Duration(cfg.AccessTokenTTLMin) * time.Minute
	authn := middleware.NewAuthenticator(tokens, dbClient, log)
	authHandler := handlers.NewAuthHandler(userService, tokens, bearerTTL, log)
	chatHandler := handlers.NewChatHandler(chatService)
	subHandler := handlers.NewSubscriptionHandler(userService)

	server := NewServer(cfg, authn, authHandler, chatHandler, subHandler)

	return &App{DBClient: dbClient, Generator: generator, Server: server, log: log}, nil
}

func (a *App) Close() {
	if c, ok := a.Generator.(io.Closer); ok {
		_ = c.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
