// Package social resolves provider-issued access tokens to identities.
package social

import (
	"context"
	"fmt"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

// StubVerifier returns fixed fake identities per provider. It is explicitly
// not production-ready: a real implementation must call the provider's
// token-introspection endpoint before the identity reaches the user store.
type StubVerifier struct{}

func NewStubVerifier() *StubVerifier { return &StubVerifier{} }

func (v *StubVerifier) Verify(ctx context.Context, providerToken string, provider models.AuthProvider) (*core.SocialIdentity, error) {
	switch provider {
	case models.ProviderGoogle:
		return &core.SocialIdentity{Email: "user@example.com", Username: "Google User", ProviderUserID: "google_12345"}, nil
	case models.ProviderFacebook:
		return &core.SocialIdentity{Email: "user@example.com", Username: "Facebook User", ProviderUserID: "facebook_12345"}, nil
	case models.ProviderInstagram:
		return &core.SocialIdentity{Email: "user@example.com", Username: "Instagram User", ProviderUserID: "instagram_12345"}, nil
	default:
		return nil, fmt.Errorf("invalid provider %q", provider)
	}
}

var _ core.SocialVerifier = (*StubVerifier)(nil)
