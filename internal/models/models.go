package models

import (
	"time"
)

// AuthProvider identifies how a user proves their identity.
type AuthProvider string

const (
	ProviderEmail     AuthProvider = "email"
	ProviderGoogle    AuthProvider = "google"
	ProviderFacebook  AuthProvider = "facebook"
	ProviderInstagram AuthProvider = "instagram"
)

// Valid reports whether p is one of the known providers.
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderFacebook, ProviderInstagram:
		return true
	}
	return false
}

// SubscriptionTier is a named subscription level. Only the free tier caps
// the number of chats a user may own.
type SubscriptionTier string

const (
	TierFree         SubscriptionTier = "free"
	TierBasic        SubscriptionTier = "basic"
	TierPremium      SubscriptionTier = "premium"
	TierProfessional SubscriptionTier = "professional"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierBasic, TierPremium, TierProfessional:
		return true
	}
	return false
}

// Paid reports whether t carries a forward expiry.
func (t SubscriptionTier) Paid() bool { return t.Valid() && t != TierFree }

// User represents an account. PasswordHash is empty for pure social-identity
// accounts; ProviderUserID is set iff AuthProvider is not "email".
type User struct {
	ID                 string           `db:"id" json:"id"`
	Email              string           `db:"email" json:"email"`
	Username           string           `db:"username" json:"username"`
	PasswordHash       string           `db:"password_hash" json:"-"`
	IsVerified         bool             `db:"is_verified" json:"is_verified"`
	AuthProvider       AuthProvider     `db:"auth_provider" json:"auth_provider"`
	ProviderUserID     string           `db:"provider_user_id" json:"-"`
	SubscriptionTier   SubscriptionTier `db:"subscription_tier" json:"subscription_tier"`
	SubscriptionExpiry *time.Time       `db:"subscription_expiry" json:"subscription_expiry,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// Chat is one conversation owned by a user. UpdatedAt is bumped on every
// message append and drives most-recently-active ordering.
type Chat struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Messages  []Message `db:"-" json:"messages"`
}

// Message is a single utterance within a chat, authored by the human
// (IsUser true) or the responder. Messages are never edited or deleted
// individually.
type Message struct {
	ID        string    `db:"id" json:"id"`
	ChatID    string    `db:"chat_id" json:"chat_id"`
	IsUser    bool      `db:"is_user" json:"is_user"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
