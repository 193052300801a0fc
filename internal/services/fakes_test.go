package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

// fakeDB is an in-memory DbClient with the same error contract as the
// Postgres client, including the free-tier cap inside CreateChat.
type fakeDB struct {
	mu    sync.Mutex
	users map[string]*models.User
	chats map[string]*models.Chat
	msgs  map[string][]models.Message
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users: map[string]*models.User{},
		chats: map[string]*models.Chat{},
		msgs:  map[string][]models.Message{},
	}
}

func (f *fakeDB) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return core.ErrDuplicateEmail
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeDB) SetUserVerified(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (f *fakeDB) LinkProvider(ctx context.Context, id string, provider models.AuthProvider, providerUserID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	u.AuthProvider = provider
	u.ProviderUserID = providerUserID
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (f *fakeDB) ApplySubscription(ctx context.Context, id string, tier models.SubscriptionTier, days int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	now := time.Now().UTC()
	expiry := now.AddDate(0, 0, days)
	if u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now) {
		expiry = u.SubscriptionExpiry.AddDate(0, 0, days)
	}
	u.SubscriptionTier = tier
	u.SubscriptionExpiry = &expiry
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (f *fakeDB) CreateChat(ctx context.Context, chat *models.Chat, freeChatLimit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.users[chat.UserID]
	if !ok {
		return core.ErrNotFound
	}
	if owner.SubscriptionTier == models.TierFree && freeChatLimit > 0 {
		count := 0
		for _, c := range f.chats {
			if c.UserID == chat.UserID {
				count++
			}
		}
		if count >= freeChatLimit {
			return core.ErrQuotaExceeded
		}
	}
	cp := *chat
	f.chats[chat.ID] = &cp
	return nil
}

func (f *fakeDB) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, core.ErrNotFound
	}
	cp := *c
	cp.Messages = append([]models.Message{}, f.msgs[chatID]...)
	return &cp, nil
}

func (f *fakeDB) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Chat{}
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeDB) RenameChat(ctx context.Context, chatID, userID, title string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, core.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (f *fakeDB) DeleteChat(ctx context.Context, chatID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.chats, chatID)
	delete(f.msgs, chatID)
	return nil
}

func (f *fakeDB) AddMessage(ctx context.Context, msg *models.Message, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[msg.ChatID]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	f.msgs[msg.ChatID] = append(f.msgs[msg.ChatID], *msg)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeDB) Close() error { return nil }

var _ core.DbClient = (*fakeDB)(nil)

// fakeMailer signals every delivery on a channel so tests can wait for the
// background send.
type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 4)}
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.sent <- to
	return nil
}

// fakeVerifier hands back a fixed identity regardless of token.
type fakeVerifier struct {
	identity core.SocialIdentity
}

func (v *fakeVerifier) Verify(ctx context.Context, providerToken string, provider models.AuthProvider) (*core.SocialIdentity, error) {
	id := v.identity
	return &id, nil
}

// fakeGenerator echoes a canned reply and records the name it was given.
type fakeGenerator struct {
	reply    string
	err      error
	lastName string
}

func (g *fakeGenerator) Generate(ctx context.Context, query, userName string) (string, error) {
	g.lastName = userName
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}
