package core

import (
	"context"

	"github.com/notpasha/astro/internal/models"
)

// Generator produces the assistant's reply to a user message. It has no side
// effects from the core's perspective and may be swapped for a real model.
type Generator interface {
	Generate(ctx context.Context, query string, userName string) (string, error)
}

// Mailer delivers email. Sends are fire-and-forget: a delivery failure never
// rolls back the operation that triggered it.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SocialIdentity is what a provider attests about a user.
type SocialIdentity struct {
	Email          string
	Username       string
	ProviderUserID string
}

// SocialVerifier resolves a provider-issued token to an identity. A real
// implementation must call the provider's token-introspection endpoint.
type SocialVerifier interface {
	Verify(ctx context.Context, providerToken string, provider models.AuthProvider) (*SocialIdentity, error)
}
