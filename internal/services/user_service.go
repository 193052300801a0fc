package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/mailer"
	"github.com/notpasha/astro/internal/models"
	"github.com/notpasha/astro/internal/subscription"
)

// UserService owns user records: registration, login, social-identity
// linking, email verification, and subscription changes.
type UserService struct {
	db          core.DbClient
	tokens      tokenIssuer
	mail        core.Mailer
	social      core.SocialVerifier
	frontendURL string
	log         *zap.SugaredLogger
}

// tokenIssuer is the slice of the token service the user service needs.
type tokenIssuer interface {
	IssueVerificationToken(email string) (string, error)
	ResolveVerificationToken(token string) (string, error)
}

func NewUserService(db core.DbClient, tokens tokenIssuer, mail core.Mailer, social core.SocialVerifier, frontendURL string, log *zap.SugaredLogger) *UserService {
	return &UserService{db: db, tokens: tokens, mail: mail, social: social, frontendURL: frontendURL, log: log}
}

// Register creates an unverified local account and kicks off verification
// mail delivery. The plaintext password is hashed immediately and never
// stored or logged.
func (s *UserService) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	email = normalizeEmail(email)
	if username == "" {
		username = localPart(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:               uuid.NewString(),
		Email:            email,
		Username:         username,
		PasswordHash:     string(hash),
		IsVerified:       false,
		AuthProvider:     models.ProviderEmail,
		SubscriptionTier: models.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerificationMail(user.Email)
	return user, nil
}

// Authenticate checks email+password. Unknown email, a social-only account,
// and a wrong password all yield the same ErrInvalidCredentials so callers
// cannot enumerate accounts.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.db.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, core.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, core.ErrInvalidCredentials
	}
	return user, nil
}

// SocialLogin resolves the provider token to an identity and upserts the
// user: an email match links the provider onto the existing record
// (overwriting any prior linkage), otherwise a new pre-verified account is
// created. Social identity proof substitutes for email verification.
func (s *UserService) SocialLogin(ctx context.Context, providerToken string, provider models.AuthProvider) (*models.User, error) {
	identity, err := s.social.Verify(ctx, providerToken, provider)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(identity.Email)
	existing, err := s.db.GetUserByEmail(ctx, email)
	if err == nil {
		return s.db.LinkProvider(ctx, existing.ID, provider, identity.ProviderUserID)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:               uuid.NewString(),
		Email:            email,
		Username:         identity.Username,
		IsVerified:       true,
		AuthProvider:     provider,
		ProviderUserID:   identity.ProviderUserID,
		SubscriptionTier: models.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail resolves a verification token and flips the account to
// verified. Idempotent: an already-verified account is returned unchanged.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.ResolveVerificationToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return user, nil
	}
	return s.db.SetUserVerified(ctx, user.ID)
}

// Get returns the user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.db.GetUserByID(ctx, id)
}

// ApplySubscription moves the user to the given tier. Free short-circuits:
// it is not purchased and carries no expiry math. Paid tiers stack a
// still-future expiry by 30 days per month purchased.
func (s *UserService) ApplySubscription(ctx context.Context, userID string, tier models.SubscriptionTier, months int) (*models.User, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("unknown subscription tier %q", tier)
	}
	if months < 1 {
		months = 1
	}
	if tier == models.TierFree {
		return s.db.GetUserByID(ctx, userID)
	}
	return s.db.ApplySubscription(ctx, userID, tier, subscription.DaysPerMonth*months)
}

// sendVerificationMail issues a verification token and delivers it in the
// background. Delivery failure never rolls back the registration; the user
// can request a resend.
func (s *UserService) sendVerificationMail(email string) {
	token, err := s.tokens.IssueVerificationToken(email)
	if err != nil {
		s.log.Errorw("issue verification token", "error", err)
		return
	}
	subject, body := mailer.VerificationEmail(s.frontendURL, token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mail.Send(ctx, email, subject, body); err != nil {
			s.log.Errorw("send verification email", "error", err)
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
