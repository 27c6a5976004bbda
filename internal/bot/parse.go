package bot

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type entryArgs struct {
	amount      decimal.Decimal
	category    taxonomy.Category
	subcategory taxonomy.Subcategory
	comment     string
}

// parseEntryArgs parses "<amount> <category>[/<subcategory>] [comment]".
// Category and subcategory match either the machine value or the display
// label, case-insensitively.
func parseEntryArgs(args string) (*entryArgs, error) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		return nil, errors.New("Нужны сумма и категория, например: 1200 food/products")
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(parts[0], ",", "."))
	if err != nil {
		return nil, errors.New("Не удалось распознать сумму")
	}

	catPart, subPart, _ := strings.Cut(parts[1], "/")

	category, ok := matchCategory(catPart)
	if !ok {
		return nil, errors.New("Неизвестная категория «" + catPart + "», см. /categories")
	}

	var subcategory taxonomy.Subcategory
	if subPart != "" {
		subcategory, ok = matchSubcategory(subPart)
		if !ok {
			return nil, errors.New("Неизвестная подкатегория «" + subPart + "», см. /categories")
		}
	}

	return &entryArgs{
		amount:      amount,
		category:    category,
		subcategory: subcategory,
		comment:     strings.Join(parts[2:], " "),
	}, nil
}

func matchCategory(s string) (taxonomy.Category, bool) {
	for _, c := range taxonomy.Categories() {
		if strings.EqualFold(string(c), s) || strings.EqualFold(c.Label(), s) {
			return c, true
		}
	}
	return "", false
}

func matchSubcategory(s string) (taxonomy.Subcategory, bool) {
	for _, sub := range taxonomy.Subcategories() {
		if strings.EqualFold(string(sub), s) || strings.EqualFold(sub.Label(), s) {
			return sub, true
		}
	}
	return "", false
}
