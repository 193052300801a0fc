package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

// DefaultChatTitle is used when a chat is created without a title.
const DefaultChatTitle = "New Chat"

// ChatService owns chats and messages scoped to a user. Quota decisions are
// deferred to the store, which evaluates the free-tier cap inside the same
// transaction as the insert.
type ChatService struct {
	db            core.DbClient
	generator     core.Generator
	freeChatLimit int
	log           *zap.SugaredLogger
}

func NewChatService(db core.DbClient, generator core.Generator, freeChatLimit int, log *zap.SugaredLogger) *ChatService {
	return &ChatService{db: db, generator: generator, freeChatLimit: freeChatLimit, log: log}
}

func (s *ChatService) Create(ctx context.Context, userID, title string) (*models.Chat, error) {
	if title == "" {
		title = DefaultChatTitle
	}
	now := time.Now().UTC()
	chat := &models.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []models.Message{},
	}
	if err := s.db.CreateChat(ctx, chat, s.freeChatLimit); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) List(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.db.ListChats(ctx, userID)
}

func (s *ChatService) Get(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	return s.db.GetChat(ctx, chatID, userID)
}

func (s *ChatService) Rename(ctx context.Context, chatID, userID, title string) (*models.Chat, error) {
	return s.db.RenameChat(ctx, chatID, userID, title)
}

func (s *ChatService) Delete(ctx context.Context, chatID, userID string) error {
	return s.db.DeleteChat(ctx, chatID, userID)
}

// Exchange appends the user's message, asks the generator for a reply, and
// appends that too. Both land in the chat in order, attributed via is_user.
// The user message stays persisted even if generation fails.
func (s *ChatService) Exchange(ctx context.Context, chatID string, user *models.User, content string) ([]models.Message, error) {
	userMsg := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		IsUser:    true,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.AddMessage(ctx, userMsg, user.ID); err != nil {
		return nil, err
	}

	reply, err := s.generator.Generate(ctx, content, user.Username)
	if err != nil {
		s.log.Errorw("generate reply", "chat_id", chatID, "error", err)
		return nil, err
	}

	replyMsg := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		IsUser:    false,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.AddMessage(ctx, replyMsg, user.ID); err != nil {
		return nil, err
	}

	return []models.Message{*userMsg, *replyMsg}, nil
}
