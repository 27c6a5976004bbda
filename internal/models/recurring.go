package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

// RecurringRule is a transaction template plus an RFC 5545 RRULE. The
// scheduler materializes each due occurrence as an ordinary Transaction and
// advances NextAt. A nil NextAt means the rule is exhausted.
type RecurringRule struct {
	RuleID      int64                `json:"rule_id"`
	UserID      int64                `json:"user_id"`
	Status      taxonomy.Status      `json:"status"`
	Type        taxonomy.Type        `json:"type"`
	Category    taxonomy.Category    `json:"category"`
	Subcategory taxonomy.Subcategory `json:"subcategory,omitempty"`
	Amount      decimal.Decimal      `json:"amount"`
	Comment     string               `json:"comment,omitempty"`
	RRule       string               `json:"rrule"`
	DtStart     time.Time            `json:"dtstart"`
	NextAt      *time.Time           `json:"next_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}
