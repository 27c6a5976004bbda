// Package ledger is the write authority for transactions: every create and
// update, no matter which surface initiated it, passes through Service so the
// taxonomy invariant holds for every stored record.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/recur"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type Service struct {
	store Store
	rules RecurringStore
}

func NewService(store Store, rules RecurringStore) *Service {
	return &Service{store: store, rules: rules}
}

// Create validates the candidate and persists it. On a validation failure
// nothing is written.
func (s *Service) Create(ctx context.Context, tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	return s.store.CreateTransaction(ctx, tx)
}

// Update validates the candidate and persists it. The stored owner is kept
// as is, and a stale UpdatedAt is rejected with ErrStale.
func (s *Service) Update(ctx context.Context, tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	return s.store.UpdateTransaction(ctx, tx)
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, id, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.store.DeleteTransaction(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID int64, f Filter) ([]*models.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, f)
}

// CreateRule validates a recurring template the same way a transaction is
// validated, checks that the RRULE parses, computes the first occurrence and
// persists the rule.
func (s *Service) CreateRule(ctx context.Context, r *models.RecurringRule) error {
	if err := validateTemplate(r.Status, r.Type, r.Category, r.Subcategory, r.Amount); err != nil {
		return err
	}
	if r.RRule == "" {
		return taxonomy.NewValidationError("rrule", "Обязательное поле.")
	}
	if r.DtStart.IsZero() {
		return taxonomy.NewValidationError("dtstart", "Обязательное поле.")
	}

	next, err := recur.NextAfter(r.RRule, r.DtStart, r.DtStart.Add(-time.Second))
	if err != nil {
		return taxonomy.NewValidationError("rrule", "Некорректное правило повторения.")
	}
	r.NextAt = next

	return s.rules.CreateRule(ctx, r)
}

func (s *Service) ListRules(ctx context.Context, userID int64) ([]*models.RecurringRule, error) {
	return s.rules.ListRules(ctx, userID)
}

func (s *Service) DeleteRule(ctx context.Context, id, userID int64) error {
	return s.rules.DeleteRule(ctx, id, userID)
}

func validateTransaction(tx *models.Transaction) error {
	if tx.Date.IsZero() {
		return taxonomy.NewValidationError("date", "Обязательное поле.")
	}
	if tx.Status == "" {
		return taxonomy.NewValidationError("status", "Обязательное поле.")
	}
	return validateTemplate(tx.Status, tx.Type, tx.Category, tx.Subcategory, tx.Amount)
}

// validateTemplate holds the checks shared by transactions and recurring
// templates: enum validity, amount constraints and the taxonomy triple.
func validateTemplate(status taxonomy.Status, t taxonomy.Type, c taxonomy.Category, sub taxonomy.Subcategory, amount decimal.Decimal) error {
	if status != "" && !status.Valid() {
		return taxonomy.NewValidationError("status", "Недопустимое значение статуса.")
	}
	if t == "" {
		return taxonomy.NewValidationError("type", "Обязательное поле.")
	}
	if !t.Valid() {
		return taxonomy.NewValidationError("type", "Недопустимое значение типа.")
	}
	if c == "" {
		return taxonomy.NewValidationError("category", "Обязательное поле.")
	}
	if !c.Valid() {
		return taxonomy.NewValidationError("category", "Недопустимое значение категории.")
	}
	if sub != "" && !sub.Valid() {
		return taxonomy.NewValidationError("subcategory", "Недопустимое значение подкатегории.")
	}
	if amount.IsNegative() {
		return taxonomy.NewValidationError("amount", "Сумма не может быть отрицательной.")
	}
	if !amount.Equal(amount.Round(2)) {
		return taxonomy.NewValidationError("amount", "Не более двух знаков после запятой.")
	}
	return taxonomy.ValidateTriple(t, c, sub)
}
