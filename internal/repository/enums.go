package repository

import "github.com/ddsapp/cashflow/internal/taxonomy"

func statusStrings(in []taxonomy.Status) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func typeStrings(in []taxonomy.Type) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func categoryStrings(in []taxonomy.Category) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func subcategoryStrings(in []taxonomy.Subcategory) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}
