package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ddsapp/cashflow/internal/database"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&u.UserID, &u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ledger.ErrExists
	}
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `WHERE user_id = $1`, id)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) GetOrCreateTelegramUser(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	u, err := r.upsertTelegramUser(ctx, telegramID, username)

	// The telegram_id conflict is absorbed by the upsert; a duplicate error
	// here means the Telegram username is taken by an unlinked web account.
	// Retry under a name derived from the telegram id instead.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return r.upsertTelegramUser(ctx, telegramID, fmt.Sprintf("tg_%d", telegramID))
	}
	return u, err
}

func (r *UserRepository) upsertTelegramUser(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	u := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, telegram_id) VALUES ($1, $2)
		 ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = EXCLUDED.telegram_id
		 RETURNING user_id, username, email, password_hash, telegram_id, created_at`,
		username, telegramID,
	).Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.TelegramID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, telegram_id, created_at
		 FROM users `+where, arg,
	).Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.TelegramID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
