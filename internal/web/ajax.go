package web

import (
	"net/http"

	"github.com/ddsapp/cashflow/internal/taxonomy"
)

// handleLoadCategories narrows the category dropdown to the selected type.
// A missing or unknown type yields an empty array, not an error.
func (s *Server) handleLoadCategories(w http.ResponseWriter, r *http.Request) {
	t := taxonomy.Type(r.URL.Query().Get("type_value"))
	writeJSON(w, http.StatusOK, taxonomy.CategoryOptions(t))
}

// handleLoadSubcategories narrows the subcategory dropdown to the selected
// category, with the same empty-on-missing policy.
func (s *Server) handleLoadSubcategories(w http.ResponseWriter, r *http.Request) {
	c := taxonomy.Category(r.URL.Query().Get("category_value"))
	writeJSON(w, http.StatusOK, taxonomy.SubcategoryOptions(c))
}
