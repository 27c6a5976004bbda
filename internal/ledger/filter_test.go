package ledger

import (
	"testing"
	"time"

	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

func sampleTx() *models.Transaction {
	return &models.Transaction{
		Date:        time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		Status:      taxonomy.StatusPersonal,
		Type:        taxonomy.TypeExpense,
		Category:    taxonomy.CategoryFood,
		Subcategory: taxonomy.SubcategoryProducts,
	}
}

func TestMatchEmptyFilter(t *testing.T) {
	if !(Filter{}).Match(sampleTx()) {
		t.Error("empty filter must match everything")
	}
	if !(Filter{Mode: FilterOr}).Match(sampleTx()) {
		t.Error("empty OR filter must match everything (vacuous truth)")
	}
}

func TestMatchAndMode(t *testing.T) {
	tx := sampleTx()

	f := Filter{
		Mode:     FilterAnd,
		Types:    []taxonomy.Type{taxonomy.TypeExpense},
		Statuses: []taxonomy.Status{taxonomy.StatusPersonal},
	}
	if !f.Match(tx) {
		t.Error("all criteria hold, AND filter should match")
	}

	f.Statuses = []taxonomy.Status{taxonomy.StatusBusiness}
	if f.Match(tx) {
		t.Error("one criterion fails, AND filter should reject")
	}
}

func TestMatchOrMode(t *testing.T) {
	tx := sampleTx()

	f := Filter{
		Mode:     FilterOr,
		Types:    []taxonomy.Type{taxonomy.TypeIncome},
		Statuses: []taxonomy.Status{taxonomy.StatusPersonal},
	}
	if !f.Match(tx) {
		t.Error("one criterion holds, OR filter should match")
	}

	f.Statuses = []taxonomy.Status{taxonomy.StatusBusiness}
	if f.Match(tx) {
		t.Error("no criterion holds, OR filter should reject")
	}
}

// Multiple values inside one field set are always a membership test,
// regardless of mode.
func TestMatchWithinFieldSet(t *testing.T) {
	tx := sampleTx()
	f := Filter{
		Mode:       FilterAnd,
		Categories: []taxonomy.Category{taxonomy.CategoryTransport, taxonomy.CategoryFood},
	}
	if !f.Match(tx) {
		t.Error("transaction category is in the set, should match")
	}
}

func TestMatchDateRangeAlwaysAnd(t *testing.T) {
	tx := sampleTx()
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	f := Filter{DateFrom: &from, DateTo: &to}
	if !f.Match(tx) {
		t.Error("date inside range should match")
	}

	// Bounds are inclusive.
	onFrom := sampleTx()
	onFrom.Date = from
	if !f.Match(onFrom) {
		t.Error("date equal to lower bound should match")
	}

	// Even in OR mode a failing date bound rejects: the range is not one of
	// the OR'd criteria.
	late := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	f = Filter{
		Mode:     FilterOr,
		Statuses: []taxonomy.Status{taxonomy.StatusPersonal},
		DateFrom: &late,
	}
	if f.Match(tx) {
		t.Error("date outside range must reject even when an OR criterion holds")
	}
}

// Unknown machine values in the filter simply match nothing.
func TestMatchUnknownValue(t *testing.T) {
	f := Filter{Statuses: []taxonomy.Status{"bogus"}}
	if f.Match(sampleTx()) {
		t.Error("unrecognized status value should match no transaction")
	}
}
