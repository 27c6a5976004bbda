package bot

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

func TestParseEntryArgs(t *testing.T) {
	got, err := parseEntryArgs("1200 food/products молоко и хлеб")
	if err != nil {
		t.Fatalf("parseEntryArgs: %v", err)
	}
	if !got.amount.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("amount = %s", got.amount)
	}
	if got.category != taxonomy.CategoryFood {
		t.Errorf("category = %q", got.category)
	}
	if got.subcategory != taxonomy.SubcategoryProducts {
		t.Errorf("subcategory = %q", got.subcategory)
	}
	if got.comment != "молоко и хлеб" {
		t.Errorf("comment = %q", got.comment)
	}
}

func TestParseEntryArgsNoSubcategory(t *testing.T) {
	got, err := parseEntryArgs("500 transport")
	if err != nil {
		t.Fatalf("parseEntryArgs: %v", err)
	}
	if got.category != taxonomy.CategoryTransport || got.subcategory != "" {
		t.Errorf("got %+v", got)
	}
	if got.comment != "" {
		t.Errorf("comment = %q, want empty", got.comment)
	}
}

func TestParseEntryArgsCommaDecimal(t *testing.T) {
	got, err := parseEntryArgs("99,90 food")
	if err != nil {
		t.Fatalf("parseEntryArgs: %v", err)
	}
	if !got.amount.Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("amount = %s, want 99.90", got.amount)
	}
}

func TestParseEntryArgsByLabel(t *testing.T) {
	got, err := parseEntryArgs("300 Еда/Продукты")
	if err != nil {
		t.Fatalf("parseEntryArgs: %v", err)
	}
	if got.category != taxonomy.CategoryFood || got.subcategory != taxonomy.SubcategoryProducts {
		t.Errorf("got %+v", got)
	}
}

func TestParseEntryArgsErrors(t *testing.T) {
	cases := []string{
		"",                 // nothing
		"1200",             // no category
		"abc food",         // unparsable amount
		"100 misc",         // unknown category
		"100 food/unknown", // unknown subcategory
	}
	for _, in := range cases {
		if _, err := parseEntryArgs(in); err == nil {
			t.Errorf("parseEntryArgs(%q) accepted", in)
		}
	}
}
