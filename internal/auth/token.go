// Package auth issues and validates the two signed-token flows: bearer
// tokens for request authentication and single-use email-verification
// tokens. Both are stateless and share one HMAC key, kept apart by a "use"
// claim so a verification token can never be replayed as a bearer token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notpasha/astro/internal/core"
)

const (
	useBearer       = "bearer"
	useVerification = "email_verification"

	// VerificationTokenTTL is the fixed lifetime of email-verification tokens.
	VerificationTokenTTL = 24 * time.Hour
)

type claims struct {
	jwt.RegisteredClaims
	Use   string `json:"use"`
	Email string `json:"email,omitempty"`
}

// TokenService signs and validates tokens with a symmetric key. An optional
// previous key is accepted for validation only, so the signing key can
// rotate without invalidating live sessions.
type TokenService struct {
	key     []byte
	prevKey []byte
}

func NewTokenService(secret, previousSecret string) *TokenService {
	s := &TokenService{key: []byte(secret)}
	if previousSecret != "" {
		s.prevKey = []byte(previousSecret)
	}
	return s
}

// IssueBearerToken mints a bearer token for the user with an absolute expiry.
func (s *TokenService) IssueBearerToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	return s.sign(claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Use: useBearer,
	})
}

// ValidateBearerToken resolves a bearer token to the user id it was issued
// for. All failures collapse to ErrInvalidToken; the wrapped detail is for
// internal logging only.
func (s *TokenService) ValidateBearerToken(token string) (string, error) {
	c, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if c.Use != useBearer || c.Subject == "" {
		return "", fmt.Errorf("%w: wrong token use", core.ErrInvalidToken)
	}
	return c.Subject, nil
}

// IssueVerificationToken mints a 24-hour email-verification token.
func (s *TokenService) IssueVerificationToken(email string) (string, error) {
	now := time.Now()
	return s.sign(claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(VerificationTokenTTL)),
		},
		Use:   useVerification,
		Email: email,
	})
}

// ResolveVerificationToken returns the email a verification token was issued
// for, or ErrInvalidToken.
func (s *TokenService) ResolveVerificationToken(token string) (string, error) {
	c, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if c.Use != useVerification || c.Email == "" {
		return "", fmt.Errorf("%w: wrong token use", core.ErrInvalidToken)
	}
	return c.Email, nil
}

func (s *TokenService) sign(c claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string) (*claims, error) {
	c, err := parseWithKey(token, s.key)
	if err == nil {
		return c, nil
	}
	// During a rotation window tokens signed with the old key stay valid.
	if s.prevKey != nil && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		if c, prevErr := parseWithKey(token, s.prevKey); prevErr == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
}

func parseWithKey(token string, key []byte) (*claims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &c, nil
}
