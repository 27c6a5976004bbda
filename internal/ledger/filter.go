package ledger

import (
	"time"

	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type FilterMode string

const (
	FilterAnd FilterMode = "and"
	FilterOr  FilterMode = "or"
)

// Filter describes a listing request over one user's transactions. Empty
// field sets mean "no constraint on this field". The date bounds are
// inclusive and always combined with AND, regardless of Mode.
type Filter struct {
	Mode          FilterMode
	Statuses      []taxonomy.Status
	Types         []taxonomy.Type
	Categories    []taxonomy.Category
	Subcategories []taxonomy.Subcategory
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Match reports whether the transaction satisfies the filter. Non-empty
// field sets become membership predicates combined with AND or OR per Mode;
// with zero field criteria the combined predicate is vacuously true. The
// date-range predicate is always ANDed in.
func (f Filter) Match(tx *models.Transaction) bool {
	var checks []bool

	if len(f.Statuses) > 0 {
		checks = append(checks, containsStatus(f.Statuses, tx.Status))
	}
	if len(f.Types) > 0 {
		checks = append(checks, containsType(f.Types, tx.Type))
	}
	if len(f.Categories) > 0 {
		checks = append(checks, containsCategory(f.Categories, tx.Category))
	}
	if len(f.Subcategories) > 0 {
		checks = append(checks, containsSubcategory(f.Subcategories, tx.Subcategory))
	}

	if len(checks) > 0 {
		matched := f.Mode != FilterOr
		for _, ok := range checks {
			if f.Mode == FilterOr {
				matched = matched || ok
			} else {
				matched = matched && ok
			}
		}
		if !matched {
			return false
		}
	}

	if f.DateFrom != nil && tx.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && tx.Date.After(*f.DateTo) {
		return false
	}
	return true
}

func containsStatus(list []taxonomy.Status, v taxonomy.Status) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsType(list []taxonomy.Type, v taxonomy.Type) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsCategory(list []taxonomy.Category, v taxonomy.Category) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsSubcategory(list []taxonomy.Subcategory, v taxonomy.Subcategory) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
