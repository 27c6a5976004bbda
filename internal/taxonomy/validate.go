package taxonomy

import "fmt"

// ValidationError is a field-attributed validation failure with a
// human-readable, label-based message suitable for showing to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a field-attributed error with the given message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidateTriple decides whether a (type, category, subcategory) combination
// is internally consistent against the adjacency tables. It is the single
// authority for this rule: the persistence guard, the HTML form handler and
// the dropdown endpoints all rely on it rather than re-deriving the rules.
//
// Empty values mean "not chosen yet": an absent type or category skips the
// corresponding rule, and an absent subcategory is never an error here.
// The function is pure, so it is safe to call both at data-entry time and as
// the final guard before every write.
func ValidateTriple(t Type, c Category, s Subcategory) error {
	if t != "" && c != "" && !containsCategory(typeCategories[t], c) {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("Категория «%s» не относится к типу «%s»", c.Label(), t.Label()),
		}
	}

	if c != "" && s != "" && !containsSubcategory(categorySubcategories[c], s) {
		return &ValidationError{
			Field:   "subcategory",
			Message: fmt.Sprintf("Подкатегория «%s» не относится к категории «%s»", s.Label(), c.Label()),
		}
	}

	return nil
}

func containsCategory(list []Category, c Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsSubcategory(list []Subcategory, s Subcategory) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
