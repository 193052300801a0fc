package core

import (
	"context"

	"github.com/notpasha/astro/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserVerified(ctx context.Context, id string) (*models.User, error)
	LinkProvider(ctx context.Context, id string, provider models.AuthProvider, providerUserID string) (*models.User, error)

	// ApplySubscription sets the tier and extends or resets the expiry by the
	// given number of days in one transaction, with the user row locked.
	ApplySubscription(ctx context.Context, id string, tier models.SubscriptionTier, days int) (*models.User, error)

	// CreateChat inserts the chat. When freeChatLimit > 0 and the owner is on
	// the free tier, the insert and the live chat count run in one
	// transaction with the user row locked, so concurrent creations cannot
	// jointly exceed the cap. Returns ErrQuotaExceeded when the cap is hit.
	CreateChat(ctx context.Context, chat *models.Chat, freeChatLimit int) error
	GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error)
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)
	RenameChat(ctx context.Context, chatID, userID, title string) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID, userID string) error
	AddMessage(ctx context.Context, msg *models.Message, userID string) error

	Close() error
}
