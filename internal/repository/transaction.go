package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/database"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
)

const txColumns = `transaction_id, user_id, date, status, type, category,
	 COALESCE(subcategory, ''), amount::text, comment, created_at, updated_at`

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO transaction (user_id, date, status, type, category, subcategory, amount, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING transaction_id, created_at, updated_at`,
		tx.UserID, tx.Date, tx.Status, tx.Type, tx.Category,
		nullIfEmpty(string(tx.Subcategory)), tx.Amount.StringFixed(2), tx.Comment,
	).Scan(&tx.TransactionID, &tx.CreatedAt, &tx.UpdatedAt)
}

func (r *TransactionRepository) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+txColumns+`
		 FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		id, userID,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	return tx, err
}

func (r *TransactionRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `UPDATE transaction
		 SET date = $1, status = $2, type = $3, category = $4, subcategory = $5,
		     amount = $6, comment = $7, updated_at = now()
		 WHERE transaction_id = $8 AND user_id = $9`
	args := []any{
		tx.Date, tx.Status, tx.Type, tx.Category, nullIfEmpty(string(tx.Subcategory)),
		tx.Amount.StringFixed(2), tx.Comment, tx.TransactionID, tx.UserID,
	}
	if !tx.UpdatedAt.IsZero() {
		query += ` AND updated_at = $10`
		args = append(args, tx.UpdatedAt)
	}
	query += ` RETURNING updated_at`

	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the record is gone (or foreign) or the caller lost a
		// concurrent-update race. Probe to tell the two apart.
		var exists bool
		if probeErr := r.db.Pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM transaction WHERE transaction_id = $1 AND user_id = $2)`,
			tx.TransactionID, tx.UserID,
		).Scan(&exists); probeErr != nil {
			return probeErr
		}
		if exists {
			return ledger.ErrStale
		}
		return ledger.ErrNotFound
	}
	return err
}

func (r *TransactionRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context, userID int64, f ledger.Filter) ([]*models.Transaction, error) {
	where, args := filterClause(userID, f)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+txColumns+`
		 FROM transaction WHERE `+where+`
		 ORDER BY date DESC, created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// filterClause compiles a listing filter into a WHERE clause. Non-empty
// field sets become membership conditions joined by AND or OR per the filter
// mode; with no field criteria the group is omitted (vacuously true). The
// owner condition and the date bounds are always ANDed in.
func filterClause(userID int64, f ledger.Filter) (string, []any) {
	args := []any{userID}
	conds := []string{"user_id = $1"}

	var group []string
	addSet := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		args = append(args, values)
		group = append(group, fmt.Sprintf("%s = ANY($%d)", column, len(args)))
	}
	addSet("status", statusStrings(f.Statuses))
	addSet("type", typeStrings(f.Types))
	addSet("category", categoryStrings(f.Categories))
	addSet("subcategory", subcategoryStrings(f.Subcategories))

	if len(group) > 0 {
		joiner := " AND "
		if f.Mode == ledger.FilterOr {
			joiner = " OR "
		}
		conds = append(conds, "("+strings.Join(group, joiner)+")")
	}

	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var amount string
	if err := row.Scan(&tx.TransactionID, &tx.UserID, &tx.Date, &tx.Status, &tx.Type,
		&tx.Category, &tx.Subcategory, &amount, &tx.Comment, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	tx.Amount = parsed
	return tx, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
