// Package memstore is an in-memory implementation of the ledger store
// interfaces. It backs the test suite and serves as a fallback for local
// development when no database is configured.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
)

type Store struct {
	mu           sync.RWMutex
	users        map[int64]*models.User
	transactions map[int64]*models.Transaction
	rules        map[int64]*models.RecurringRule
	nextUserID   int64
	nextTxID     int64
	nextRuleID   int64
}

func New() *Store {
	return &Store{
		users:        make(map[int64]*models.User),
		transactions: make(map[int64]*models.Transaction),
		rules:        make(map[int64]*models.RecurringRule),
	}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxID++
	now := time.Now()
	tx.TransactionID = s.nextTxID
	tx.CreatedAt = now
	tx.UpdatedAt = now

	stored := *tx
	s.transactions[tx.TransactionID] = &stored
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.transactions[id]
	if !ok || stored.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.transactions[tx.TransactionID]
	if !ok || stored.UserID != tx.UserID {
		return ledger.ErrNotFound
	}
	if !tx.UpdatedAt.IsZero() && !tx.UpdatedAt.Equal(stored.UpdatedAt) {
		return ledger.ErrStale
	}

	updated := *tx
	updated.UserID = stored.UserID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	s.transactions[tx.TransactionID] = &updated

	tx.CreatedAt = updated.CreatedAt
	tx.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.transactions[id]
	if !ok || stored.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, f ledger.Filter) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Transaction
	for _, stored := range s.transactions {
		if stored.UserID != userID {
			continue
		}
		if !f.Match(stored) {
			continue
		}
		tx := *stored
		out = append(out, &tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.users {
		if stored.Username == u.Username {
			return ledger.ErrExists
		}
	}

	s.nextUserID++
	u.UserID = s.nextUserID
	u.CreatedAt = time.Now()

	stored := *u
	s.users[u.UserID] = &stored
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.users {
		if stored.Username == username {
			out := *stored
			return &out, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (s *Store) GetOrCreateTelegramUser(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.users {
		if stored.TelegramID != nil && *stored.TelegramID == telegramID {
			out := *stored
			return &out, nil
		}
	}

	// Same policy as the Postgres store: a Telegram username already taken
	// by an unlinked account falls back to a name derived from the id.
	for _, stored := range s.users {
		if stored.Username == username {
			username = fmt.Sprintf("tg_%d", telegramID)
			break
		}
	}

	s.nextUserID++
	u := &models.User{
		UserID:     s.nextUserID,
		Username:   username,
		TelegramID: &telegramID,
		CreatedAt:  time.Now(),
	}
	s.users[u.UserID] = u

	out := *u
	return &out, nil
}

func (s *Store) CreateRule(ctx context.Context, r *models.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRuleID++
	r.RuleID = s.nextRuleID
	r.CreatedAt = time.Now()

	stored := *r
	s.rules[r.RuleID] = &stored
	return nil
}

func (s *Store) ListRules(ctx context.Context, userID int64) ([]*models.RecurringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RecurringRule
	for _, stored := range s.rules {
		if stored.UserID != userID {
			continue
		}
		r := *stored
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out, nil
}

func (s *Store) DeleteRule(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rules[id]
	if !ok || stored.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

func (s *Store) DueRules(ctx context.Context, now time.Time) ([]*models.RecurringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RecurringRule
	for _, stored := range s.rules {
		if stored.NextAt == nil || stored.NextAt.After(now) {
			continue
		}
		r := *stored
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out, nil
}

func (s *Store) AdvanceRule(ctx context.Context, id int64, nextAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rules[id]
	if !ok {
		return ledger.ErrNotFound
	}
	stored.NextAt = nextAt
	return nil
}
