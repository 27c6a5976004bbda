// Package scheduler materializes due recurring rules into transactions.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/recur"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type Scheduler struct {
	svc           *ledger.Service
	rules         ledger.RecurringStore
	checkInterval time.Duration
	notifyCh      chan struct{}
}

func New(svc *ledger.Service, rules ledger.RecurringStore) *Scheduler {
	return &Scheduler{
		svc:           svc,
		rules:         rules,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now()
	due, err := s.rules.DueRules(ctx, now)
	if err != nil {
		log.Printf("Failed to load due recurring rules: %v", err)
		return
	}

	for _, rule := range due {
		if err := s.materialize(ctx, rule, now); err != nil {
			log.Printf("Failed to materialize recurring rule %d: %v", rule.RuleID, err)
		}
	}
}

// materialize records the due occurrence through the ledger guard and
// advances the rule. A rule whose template no longer validates is disabled
// instead of being retried every tick; any other failure leaves NextAt
// untouched so the next check retries.
func (s *Scheduler) materialize(ctx context.Context, rule *models.RecurringRule, now time.Time) error {
	occurredAt := *rule.NextAt

	tx := &models.Transaction{
		UserID:      rule.UserID,
		Date:        time.Date(occurredAt.Year(), occurredAt.Month(), occurredAt.Day(), 0, 0, 0, 0, time.UTC),
		Status:      rule.Status,
		Type:        rule.Type,
		Category:    rule.Category,
		Subcategory: rule.Subcategory,
		Amount:      rule.Amount,
		Comment:     rule.Comment,
	}

	if err := s.svc.Create(ctx, tx); err != nil {
		var verr *taxonomy.ValidationError
		if errors.As(err, &verr) {
			if disableErr := s.rules.AdvanceRule(ctx, rule.RuleID, nil); disableErr != nil {
				log.Printf("Failed to disable recurring rule %d: %v", rule.RuleID, disableErr)
			}
		}
		return err
	}

	next, err := recur.NextAfter(rule.RRule, rule.DtStart, occurredAt)
	if err != nil {
		next = nil
	}
	return s.rules.AdvanceRule(ctx, rule.RuleID, next)
}
