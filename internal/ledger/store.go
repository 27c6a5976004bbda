package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/ddsapp/cashflow/internal/models"
)

var (
	// ErrNotFound covers both an unknown id and a record owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrStale means the record changed since the caller loaded it.
	ErrStale = errors.New("record was modified concurrently")

	// ErrExists means a user with the same username already exists.
	ErrExists = errors.New("already exists")
)

// Store persists transactions. Implementations stamp CreatedAt/UpdatedAt on
// writes, scope every operation by owner, and apply each write atomically.
type Store interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error)
	// UpdateTransaction rejects the write with ErrStale when the stored
	// UpdatedAt differs from the one the caller carries (a zero UpdatedAt
	// skips the check). The owner column is never modified.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
	// ListTransactions returns the user's records matching the filter,
	// ordered by date descending, then created_at descending.
	ListTransactions(ctx context.Context, userID int64, f Filter) ([]*models.Transaction, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetOrCreateTelegramUser(ctx context.Context, telegramID int64, username string) (*models.User, error)
}

// RecurringStore persists recurring-rule templates.
type RecurringStore interface {
	CreateRule(ctx context.Context, r *models.RecurringRule) error
	ListRules(ctx context.Context, userID int64) ([]*models.RecurringRule, error)
	DeleteRule(ctx context.Context, id, userID int64) error
	// DueRules returns rules whose NextAt is at or before now.
	DueRules(ctx context.Context, now time.Time) ([]*models.RecurringRule, error)
	// AdvanceRule moves a rule to its next occurrence; nil disables it.
	AdvanceRule(ctx context.Context, id int64, nextAt *time.Time) error
}
