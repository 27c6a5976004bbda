package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

// Transaction is one recorded financial event. The owner is set at creation
// and never changes; category and subcategory must stay consistent with the
// taxonomy adjacency tables on every write.
type Transaction struct {
	TransactionID int64                `json:"transaction_id"`
	UserID        int64                `json:"user_id"`
	Date          time.Time            `json:"date"`
	Status        taxonomy.Status      `json:"status"`
	Type          taxonomy.Type        `json:"type"`
	Category      taxonomy.Category    `json:"category"`
	Subcategory   taxonomy.Subcategory `json:"subcategory,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Comment       string               `json:"comment,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
