package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notpasha/astro/internal/core"
)

func TestBearerTokenRoundTrip(t *testing.T) {
	s := NewTokenService("test-secret", "")

	token, err := s.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.ValidateBearerToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestBearerTokenTamperedSignature(t *testing.T) {
	s := NewTokenService("test-secret", "")

	token, err := s.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)

	flip := "A"
	if token[len(token)-1] == 'A' {
		flip = "B"
	}
	tampered := token[:len(token)-1] + flip
	_, err = s.ValidateBearerToken(tampered)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestBearerTokenExpired(t *testing.T) {
	s := NewTokenService("test-secret", "")

	token, err := s.IssueBearerToken("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = s.ValidateBearerToken(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestBearerTokenWrongKey(t *testing.T) {
	issuer := NewTokenService("secret-a", "")
	validator := NewTokenService("secret-b", "")

	token, err := issuer.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = validator.ValidateBearerToken(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	s := NewTokenService("test-secret", "")

	token, err := s.IssueVerificationToken("a@x.com")
	require.NoError(t, err)

	email, err := s.ResolveVerificationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestTokenFlowsNotInterchangeable(t *testing.T) {
	s := NewTokenService("test-secret", "")

	verification, err := s.IssueVerificationToken("a@x.com")
	require.NoError(t, err)
	_, err = s.ValidateBearerToken(verification)
	assert.ErrorIs(t, err, core.ErrInvalidToken, "verification token must not authenticate")

	bearer, err := s.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)
	_, err = s.ResolveVerificationToken(bearer)
	assert.ErrorIs(t, err, core.ErrInvalidToken, "bearer token must not verify an email")
}

func TestKeyRotationWindow(t *testing.T) {
	old := NewTokenService("old-secret", "")
	token, err := old.IssueBearerToken("user-1", time.Hour)
	require.NoError(t, err)

	// Rotated service accepts tokens signed with the previous key.
	rotated := NewTokenService("new-secret", "old-secret")
	userID, err := rotated.ValidateBearerToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Once the window closes, old-key tokens are rejected.
	closed := NewTokenService("new-secret", "")
	_, err = closed.ValidateBearerToken(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestMalformedToken(t *testing.T) {
	s := NewTokenService("test-secret", "")

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := s.ValidateBearerToken(tok)
		assert.ErrorIs(t, err, core.ErrInvalidToken, "token %q", tok)
	}
}
