package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/notpasha/astro/internal/config"
	"github.com/notpasha/astro/internal/core"
	"github.com/notpasha/astro/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an existing pool. Used by tests.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

const userColumns = `id, email, username, password_hash, is_verified, auth_provider,
		provider_user_id, subscription_tier, subscription_expiry, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u        models.User
		hash     sql.NullString
		provID   sql.NullString
		expiry   sql.NullTime
		provider string
		tier     string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &hash, &u.IsVerified, &provider,
		&provID, &tier, &expiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	u.ProviderUserID = provID.String
	u.AuthProvider = models.AuthProvider(provider)
	u.SubscriptionTier = models.SubscriptionTier(tier)
	if expiry.Valid {
		t := expiry.Time
		u.SubscriptionExpiry = &t
	}
	return &u, nil
}

// Implementing the db interface for user

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users
			(id, email, username, password_hash, is_verified, auth_provider,
			 provider_user_id, subscription_tier, subscription_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9,
			COALESCE($10, now()), COALESCE($11, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsVerified,
		string(user.AuthProvider), user.ProviderUserID, string(user.SubscriptionTier),
		user.SubscriptionExpiry, nullTime(user.CreatedAt), nullTime(user.UpdatedAt))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return core.ErrDuplicateEmail
	}
	return err
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(c.db.QueryRowContext(ctx, q, email))
}

func (c *DatabaseClient) SetUserVerified(ctx context.Context, id string) (*models.User, error) {
	q := `
		UPDATE users SET is_verified = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) LinkProvider(ctx context.Context, id string, provider models.AuthProvider, providerUserID string) (*models.User, error) {
	q := `
		UPDATE users SET auth_provider = $2, provider_user_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(c.db.QueryRowContext(ctx, q, id, string(provider), providerUserID))
}

// ApplySubscription sets the tier and stacks the expiry in one transaction.
// A still-future expiry is extended from its current value so a renewal
// before expiry is never wasted.
func (c *DatabaseClient) ApplySubscription(ctx context.Context, id string, tier models.SubscriptionTier, days int) (*models.User, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	var expiry sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT subscription_expiry FROM users WHERE id = $1 FOR UPDATE`, id,
	).Scan(&expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newExpiry := now.AddDate(0, 0, days)
	if expiry.Valid && expiry.Time.After(now) {
		newExpiry = expiry.Time.AddDate(0, 0, days)
	}

	q := `
		UPDATE users SET subscription_tier = $2, subscription_expiry = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(tx.QueryRowContext(ctx, q, id, string(tier), newExpiry))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}

// Implementing the db interface for chats

// CreateChat inserts the chat. For free-tier owners the live chat count and
// the insert share one transaction with the user row locked, so two
// concurrent creations cannot jointly exceed the cap.
func (c *DatabaseClient) CreateChat(ctx context.Context, chat *models.Chat, freeChatLimit int) error {
	if chat == nil {
		return errors.New("nil chat")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var tier string
	err = tx.QueryRowContext(ctx,
		`SELECT subscription_tier FROM users WHERE id = $1 FOR UPDATE`, chat.UserID,
	).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return err
	}

	if models.SubscriptionTier(tier) == models.TierFree && freeChatLimit > 0 {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM chats WHERE user_id = $1`, chat.UserID,
		).Scan(&count); err != nil {
			return err
		}
		if count >= freeChatLimit {
			return core.ErrQuotaExceeded
		}
	}

	const q = `
		INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, now()), COALESCE($5, now()))
	`
	if _, err := tx.ExecContext(ctx, q,
		chat.ID, chat.UserID, chat.Title, nullTime(chat.CreatedAt), nullTime(chat.UpdatedAt)); err != nil {
		return err
	}
	return tx.Commit()
}

func (c *DatabaseClient) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	const q = `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats WHERE id = $1 AND user_id = $2
	`
	var ch models.Chat
	err := c.db.QueryRowContext(ctx, q, chatID, userID).Scan(
		&ch.ID, &ch.UserID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	const mq = `
		SELECT id, chat_id, is_user, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY seq ASC
	`
	rows, err := c.db.QueryContext(ctx, mq, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ch.Messages = []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.IsUser, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		ch.Messages = append(ch.Messages, m)
	}
	return &ch, rows.Err()
}

func (c *DatabaseClient) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	const q = `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Chat{}
	for rows.Next() {
		var ch models.Chat
		if err := rows.Scan(&ch.ID, &ch.UserID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) RenameChat(ctx context.Context, chatID, userID, title string) (*models.Chat, error) {
	const q = `
		UPDATE chats SET title = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, created_at, updated_at
	`
	var ch models.Chat
	err := c.db.QueryRowContext(ctx, q, chatID, userID, title).Scan(
		&ch.ID, &ch.UserID, &ch.Title, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// DeleteChat removes the chat and all its messages in one transaction.
func (c *DatabaseClient) DeleteChat(ctx context.Context, chatID, userID string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM chats WHERE id = $1 AND user_id = $2`, chatID, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = $1`, chatID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, chatID); err != nil {
		return err
	}
	return tx.Commit()
}

// AddMessage appends to a chat owned by userID and bumps the chat's
// updated_at. The ownership check is mandatory; a chat id alone never
// authorizes access.
func (c *DatabaseClient) AddMessage(ctx context.Context, msg *models.Message, userID string) error {
	if msg == nil {
		return errors.New("nil message")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM chats WHERE id = $1 AND user_id = $2`, msg.ChatID, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO messages (id, chat_id, is_user, content, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	if _, err := tx.ExecContext(ctx, q,
		msg.ID, msg.ChatID, msg.IsUser, msg.Content, nullTime(msg.CreatedAt)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chats SET updated_at = COALESCE($2, now()) WHERE id = $1`,
		msg.ChatID, nullTime(msg.CreatedAt)); err != nil {
		return err
	}
	return tx.Commit()
}

// nullTime maps the zero time to NULL so COALESCE defaults apply.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
