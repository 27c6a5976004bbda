package taxonomy

import "testing"

func TestCategoriesForIncome(t *testing.T) {
	got := CategoriesFor(TypeIncome)
	want := []Category{CategorySalary, CategoryFreelance, CategoryInvestments, CategorySales}
	if len(got) != len(want) {
		t.Fatalf("CategoriesFor(income) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CategoriesFor(income)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCategoriesForExpense(t *testing.T) {
	got := CategoriesFor(TypeExpense)
	want := []Category{CategoryInfrastructure, CategoryMarketing, CategoryFood, CategoryTransport, CategoryEntertainment}
	if len(got) != len(want) {
		t.Fatalf("CategoriesFor(expense) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CategoriesFor(expense)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCategoriesForUnknownType(t *testing.T) {
	if got := CategoriesFor("bogus"); len(got) != 0 {
		t.Errorf("CategoriesFor(bogus) = %v, want empty", got)
	}
	if got := CategoriesFor(""); len(got) != 0 {
		t.Errorf("CategoriesFor(\"\") = %v, want empty", got)
	}
}

func TestSubcategoriesForUnknownCategory(t *testing.T) {
	if got := SubcategoriesFor("bogus"); len(got) != 0 {
		t.Errorf("SubcategoriesFor(bogus) = %v, want empty", got)
	}
}

// Every category belongs to exactly one type.
func TestCategoryPartition(t *testing.T) {
	owners := map[Category]int{}
	for _, typ := range Types() {
		for _, c := range CategoriesFor(typ) {
			owners[c]++
		}
	}
	for _, c := range Categories() {
		if owners[c] != 1 {
			t.Errorf("category %q appears under %d types, want 1", c, owners[c])
		}
	}
	if len(owners) != len(Categories()) {
		t.Errorf("adjacency covers %d categories, enum has %d", len(owners), len(Categories()))
	}
}

// Every subcategory belongs to exactly one category.
func TestSubcategoryPartition(t *testing.T) {
	owners := map[Subcategory]int{}
	for _, c := range Categories() {
		for _, s := range SubcategoriesFor(c) {
			owners[s]++
		}
	}
	for _, s := range Subcategories() {
		if owners[s] != 1 {
			t.Errorf("subcategory %q appears under %d categories, want 1", s, owners[s])
		}
	}
	if len(owners) != len(Subcategories()) {
		t.Errorf("adjacency covers %d subcategories, enum has %d", len(owners), len(Subcategories()))
	}
}

// Callers get copies; mutating a returned slice must not poison later calls.
func TestReturnedSlicesAreCopies(t *testing.T) {
	first := CategoriesFor(TypeIncome)
	first[0] = "mutated"
	second := CategoriesFor(TypeIncome)
	if second[0] != CategorySalary {
		t.Errorf("CategoriesFor(income)[0] = %q after caller mutation, want %q", second[0], CategorySalary)
	}

	cats := Categories()
	cats[0] = "mutated"
	if Categories()[0] != CategorySalary {
		t.Error("Categories() shares backing array with caller")
	}
}

func TestLabelFallback(t *testing.T) {
	if got := CategoryFood.Label(); got != "Еда" {
		t.Errorf("food label = %q, want %q", got, "Еда")
	}
	if got := Category("bogus").Label(); got != "bogus" {
		t.Errorf("unknown label = %q, want machine value", got)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"business valid", StatusBusiness.Valid()},
		{"income valid", TypeIncome.Valid()},
		{"food valid", CategoryFood.Valid()},
		{"taxi valid", SubcategoryTaxi.Valid()},
		{"empty status invalid", !Status("").Valid()},
		{"unknown type invalid", !Type("transfer").Valid()},
		{"unknown category invalid", !Category("misc").Valid()},
	}
	for _, c := range cases {
		if !c.ok {
			t.Errorf("%s: failed", c.name)
		}
	}
}

func TestCategoryOptionsShape(t *testing.T) {
	opts := CategoryOptions(TypeIncome)
	if len(opts) != 4 {
		t.Fatalf("CategoryOptions(income) has %d entries, want 4", len(opts))
	}
	if opts[0].Value != "salary" || opts[0].Label != "Зарплата" {
		t.Errorf("first income option = %+v", opts[0])
	}

	if opts := CategoryOptions(""); opts == nil || len(opts) != 0 {
		t.Errorf("CategoryOptions(\"\") = %v, want empty non-nil slice", opts)
	}
	if opts := SubcategoryOptions("bogus"); opts == nil || len(opts) != 0 {
		t.Errorf("SubcategoryOptions(bogus) = %v, want empty non-nil slice", opts)
	}
}
