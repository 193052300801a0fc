package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

const testFreeChatLimit = 10

func seedUser(db *fakeDB, tier models.SubscriptionTier) *models.User {
	u := &models.User{
		ID:               "user-1",
		Email:            "ada@x.com",
		Username:         "ada",
		IsVerified:       true,
		AuthProvider:     models.ProviderEmail,
		SubscriptionTier: tier,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	db.users[u.ID] = u
	return u
}

func newChatService(db *fakeDB, gen *fakeGenerator) *ChatService {
	return NewChatService(db, gen, testFreeChatLimit, zap.NewNop().Sugar())
}

func TestCreateChatDefaultTitle(t *testing.T) {
	db := newFakeDB()
	seedUser(db, models.TierFree)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	chat, err := svc.Create(context.Background(), "user-1", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultChatTitle, chat.Title)
	assert.Equal(t, "user-1", chat.UserID)
	assert.Empty(t, chat.Messages)
}

func TestCreateChatFreeTierCap(t *testing.T) {
	db := newFakeDB()
	seedUser(db, models.TierFree)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	for i := 0; i < testFreeChatLimit; i++ {
		_, err := svc.Create(context.Background(), "user-1", "")
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), "user-1", "one too many")
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
}

func TestCreateChatPaidTierUncapped(t *testing.T) {
	db := newFakeDB()
	seedUser(db, models.TierPremium)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	for i := 0; i < testFreeChatLimit+5; i++ {
		_, err := svc.Create(context.Background(), "user-1", "")
		require.NoError(t, err)
	}
}

func TestExchangePersistsBothMessages(t *testing.T) {
	db := newFakeDB()
	user := seedUser(db, models.TierPremium)
	gen := &fakeGenerator{reply: "The stars align."}
	svc := newChatService(db, gen)

	chat, err := svc.Create(context.Background(), user.ID, "")
	require.NoError(t, err)

	msgs, err := svc.Exchange(context.Background(), chat.ID, user, "what do the stars say?")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.True(t, msgs[0].IsUser)
	assert.Equal(t, "what do the stars say?", msgs[0].Content)
	assert.False(t, msgs[1].IsUser)
	assert.Equal(t, "The stars align.", msgs[1].Content)
	assert.Equal(t, user.Username, gen.lastName, "generator personalizes with the username")

	stored, err := svc.Get(context.Background(), chat.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, msgs[0].ID, stored.Messages[0].ID)
	assert.Equal(t, msgs[1].ID, stored.Messages[1].ID)
}

func TestExchangeKeepsUserMessageOnGeneratorFailure(t *testing.T) {
	db := newFakeDB()
	user := seedUser(db, models.TierPremium)
	genErr := errors.New("model unavailable")
	svc := newChatService(db, &fakeGenerator{err: genErr})

	chat, err := svc.Create(context.Background(), user.ID, "")
	require.NoError(t, err)

	_, err = svc.Exchange(context.Background(), chat.ID, user, "hello")
	assert.ErrorIs(t, err, genErr)

	stored, err := svc.Get(context.Background(), chat.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1, "user message survives a failed generation")
	assert.True(t, stored.Messages[0].IsUser)
}

func TestExchangeRejectsForeignChat(t *testing.T) {
	db := newFakeDB()
	owner := seedUser(db, models.TierPremium)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	chat, err := svc.Create(context.Background(), owner.ID, "")
	require.NoError(t, err)

	intruder := &models.User{ID: "user-2", Username: "eve"}
	db.users[intruder.ID] = intruder

	_, err = svc.Exchange(context.Background(), chat.ID, intruder, "hi")
	assert.ErrorIs(t, err, core.ErrNotFound, "foreign chats look nonexistent")
}

func TestRenameAndDeleteOwnership(t *testing.T) {
	db := newFakeDB()
	owner := seedUser(db, models.TierFree)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	chat, err := svc.Create(context.Background(), owner.ID, "")
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), chat.ID, owner.ID, "Career questions")
	require.NoError(t, err)
	assert.Equal(t, "Career questions", renamed.Title)

	_, err = svc.Rename(context.Background(), chat.ID, "user-2", "hijack")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = svc.Delete(context.Background(), chat.ID, "user-2")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = svc.Delete(context.Background(), chat.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), chat.ID, owner.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListChatsMostRecentFirst(t *testing.T) {
	db := newFakeDB()
	owner := seedUser(db, models.TierPremium)
	svc := newChatService(db, &fakeGenerator{reply: "ok"})

	first, err := svc.Create(context.Background(), owner.ID, "first")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), owner.ID, "second")
	require.NoError(t, err)

	// Touching the first chat bumps it to the top.
	db.chats[first.ID].UpdatedAt = time.Now().UTC().Add(time.Minute)

	chats, err := svc.List(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
}
