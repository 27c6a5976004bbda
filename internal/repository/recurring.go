package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/database"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
)

const ruleColumns = `rule_id, user_id, status, type, category,
	 COALESCE(subcategory, ''), amount::text, comment, rrule, dtstart, next_at, created_at`

type RecurringRepository struct {
	db *database.DB
}

func NewRecurringRepository(db *database.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) CreateRule(ctx context.Context, rule *models.RecurringRule) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO recurring_rule (user_id, status, type, category, subcategory, amount, comment, rrule, dtstart, next_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING rule_id, created_at`,
		rule.UserID, rule.Status, rule.Type, rule.Category, nullIfEmpty(string(rule.Subcategory)),
		rule.Amount.StringFixed(2), rule.Comment, rule.RRule, rule.DtStart, rule.NextAt,
	).Scan(&rule.RuleID, &rule.CreatedAt)
}

func (r *RecurringRepository) ListRules(ctx context.Context, userID int64) ([]*models.RecurringRule, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+ruleColumns+`
		 FROM recurring_rule WHERE user_id = $1 ORDER BY rule_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRules(rows)
}

func (r *RecurringRepository) DeleteRule(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM recurring_rule WHERE rule_id = $1 AND user_id = $2`,
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

func (r *RecurringRepository) DueRules(ctx context.Context, now time.Time) ([]*models.RecurringRule, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+ruleColumns+`
		 FROM recurring_rule WHERE next_at IS NOT NULL AND next_at <= $1 ORDER BY rule_id`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRules(rows)
}

func (r *RecurringRepository) AdvanceRule(ctx context.Context, id int64, nextAt *time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE recurring_rule SET next_at = $1 WHERE rule_id = $2`,
		nextAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func scanRules(rows pgx.Rows) ([]*models.RecurringRule, error) {
	var rules []*models.RecurringRule
	for rows.Next() {
		rule := &models.RecurringRule{}
		var amount string
		if err := rows.Scan(&rule.RuleID, &rule.UserID, &rule.Status, &rule.Type, &rule.Category,
			&rule.Subcategory, &amount, &rule.Comment, &rule.RRule, &rule.DtStart, &rule.NextAt,
			&rule.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		rule.Amount = parsed
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
