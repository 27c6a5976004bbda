package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

const dateLayout = "2006-01-02"

type checkOption struct {
	Value   string
	Label   string
	Checked bool
}

type listPage struct {
	Title        string
	Transactions []*models.Transaction
	Mode         string
	DateFrom     string
	DateTo       string
	Statuses     []checkOption
	Types        []checkOption
	Categories   []checkOption
	Subcats      []checkOption
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	f, state := parseFilter(r)

	transactions, err := s.svc.List(r.Context(), currentUserID(r), f)
	if err != nil {
		log.Printf("Failed to list transactions: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	state.Title = "Транзакции"
	state.Transactions = transactions
	render(w, listTmpl, state)
}

// parseFilter builds the listing filter from the query string. Malformed
// values (unknown enum values, unparseable dates) are dropped as "criterion
// absent" rather than rejected; the policy is deliberately lenient.
func parseFilter(r *http.Request) (ledger.Filter, listPage) {
	q := r.URL.Query()

	f := ledger.Filter{Mode: ledger.FilterAnd}
	if q.Get("filter_mode") == string(ledger.FilterOr) {
		f.Mode = ledger.FilterOr
	}

	selected := func(key string) map[string]bool {
		set := make(map[string]bool)
		for _, v := range q[key] {
			set[v] = true
		}
		return set
	}
	statusSet := selected("status")
	typeSet := selected("type")
	categorySet := selected("category")
	subcatSet := selected("subcategory")

	page := listPage{Mode: string(f.Mode)}
	for _, opt := range taxonomy.StatusOptions() {
		checked := statusSet[opt.Value]
		if checked {
			f.Statuses = append(f.Statuses, taxonomy.Status(opt.Value))
		}
		page.Statuses = append(page.Statuses, checkOption{opt.Value, opt.Label, checked})
	}
	for _, opt := range taxonomy.TypeOptions() {
		checked := typeSet[opt.Value]
		if checked {
			f.Types = append(f.Types, taxonomy.Type(opt.Value))
		}
		page.Types = append(page.Types, checkOption{opt.Value, opt.Label, checked})
	}
	for _, opt := range taxonomy.AllCategoryOptions() {
		checked := categorySet[opt.Value]
		if checked {
			f.Categories = append(f.Categories, taxonomy.Category(opt.Value))
		}
		page.Categories = append(page.Categories, checkOption{opt.Value, opt.Label, checked})
	}
	for _, opt := range taxonomy.AllSubcategoryOptions() {
		checked := subcatSet[opt.Value]
		if checked {
			f.Subcategories = append(f.Subcategories, taxonomy.Subcategory(opt.Value))
		}
		page.Subcats = append(page.Subcats, checkOption{opt.Value, opt.Label, checked})
	}

	if from, err := time.Parse(dateLayout, q.Get("date_from")); err == nil {
		f.DateFrom = &from
		page.DateFrom = q.Get("date_from")
	}
	if to, err := time.Parse(dateLayout, q.Get("date_to")); err == nil {
		f.DateTo = &to
		page.DateTo = q.Get("date_to")
	}

	return f, page
}

type formPage struct {
	Title         string
	Action        string
	TxID          int64
	Date          string
	Status        string
	Type          string
	Category      string
	Subcategory   string
	Amount        string
	Comment       string
	UpdatedAt     string
	Errors        map[string]string
	NonFieldError string
	StatusOptions []taxonomy.Option
	TypeOptions   []taxonomy.Option
	CategoryOpts  []taxonomy.Option
	SubcatOpts    []taxonomy.Option
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	page := formPage{
		Title:         "Добавить транзакцию",
		Action:        "/transactions/create",
		Date:          time.Now().Format(dateLayout),
		Errors:        map[string]string{},
		StatusOptions: taxonomy.StatusOptions(),
		TypeOptions:   taxonomy.TypeOptions(),
		// Category and subcategory start empty; the dropdown script
		// narrows them as the user picks parent values.
		CategoryOpts: []taxonomy.Option{},
		SubcatOpts:   []taxonomy.Option{},
	}
	render(w, formTmpl, page)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	tx, page := s.parseTransactionForm(r)
	page.Title = "Добавить транзакцию"
	page.Action = "/transactions/create"

	if len(page.Errors) == 0 {
		tx.UserID = currentUserID(r)
		err := s.svc.Create(r.Context(), tx)
		if err == nil {
			http.Redirect(w, r, "/transactions", http.StatusFound)
			return
		}
		s.applySaveError(&page, err)
	}

	render(w, formTmpl, page)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.loadTransaction(w, r)
	if !ok {
		return
	}

	page := formPage{
		Title:         "Редактировать транзакцию",
		Action:        "/transactions/edit/" + strconv.FormatInt(tx.TransactionID, 10),
		TxID:          tx.TransactionID,
		Date:          tx.Date.Format(dateLayout),
		Status:        string(tx.Status),
		Type:          string(tx.Type),
		Category:      string(tx.Category),
		Subcategory:   string(tx.Subcategory),
		Amount:        tx.Amount.StringFixed(2),
		Comment:       tx.Comment,
		UpdatedAt:     tx.UpdatedAt.Format(time.RFC3339Nano),
		Errors:        map[string]string{},
		StatusOptions: taxonomy.StatusOptions(),
		TypeOptions:   taxonomy.TypeOptions(),
		// The edit form starts with the full lists; the dropdown script
		// narrows them only when the user changes a parent value.
		CategoryOpts: taxonomy.AllCategoryOptions(),
		SubcatOpts:   taxonomy.AllSubcategoryOptions(),
	}
	render(w, formTmpl, page)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tx, page := s.parseTransactionForm(r)
	page.Title = "Редактировать транзакцию"
	page.Action = "/transactions/edit/" + r.PathValue("id")
	page.TxID = id

	if len(page.Errors) == 0 {
		tx.TransactionID = id
		tx.UserID = currentUserID(r)
		err := s.svc.Update(r.Context(), tx)
		switch {
		case err == nil:
			http.Redirect(w, r, "/transactions", http.StatusFound)
			return
		case errors.Is(err, ledger.ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, ledger.ErrStale):
			page.NonFieldError = "Транзакция была изменена параллельно. Обновите страницу и повторите."
		default:
			s.applySaveError(&page, err)
		}
	}

	render(w, formTmpl, page)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.loadTransaction(w, r)
	if !ok {
		return
	}
	render(w, deleteTmpl, struct {
		Title string
		Tx    *models.Transaction
	}{"Удалить транзакцию", tx})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = s.svc.Delete(r.Context(), id, currentUserID(r))
	if errors.Is(err, ledger.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Failed to delete transaction %d: %v", id, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusFound)
}

func (s *Server) loadTransaction(w http.ResponseWriter, r *http.Request) (*models.Transaction, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	tx, err := s.svc.Get(r.Context(), id, currentUserID(r))
	if errors.Is(err, ledger.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to load transaction %d: %v", id, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return nil, false
	}
	return tx, true
}

// parseTransactionForm decodes the submitted form into a candidate record.
// Only syntactic problems are reported here; the taxonomy rules stay with
// the ledger guard, whose field-attributed errors are folded back into the
// page by applySaveError.
func (s *Server) parseTransactionForm(r *http.Request) (*models.Transaction, formPage) {
	page := formPage{
		Date:          r.PostFormValue("date"),
		Status:        r.PostFormValue("status"),
		Type:          r.PostFormValue("type"),
		Category:      r.PostFormValue("category"),
		Subcategory:   r.PostFormValue("subcategory"),
		Amount:        r.PostFormValue("amount"),
		Comment:       r.PostFormValue("comment"),
		UpdatedAt:     r.PostFormValue("updated_at"),
		Errors:        map[string]string{},
		StatusOptions: taxonomy.StatusOptions(),
		TypeOptions:   taxonomy.TypeOptions(),
		CategoryOpts:  taxonomy.AllCategoryOptions(),
		SubcatOpts:    taxonomy.AllSubcategoryOptions(),
	}

	tx := &models.Transaction{
		Status:      taxonomy.Status(page.Status),
		Type:        taxonomy.Type(page.Type),
		Category:    taxonomy.Category(page.Category),
		Subcategory: taxonomy.Subcategory(page.Subcategory),
		Comment:     page.Comment,
	}

	if page.Date == "" {
		page.Errors["date"] = "Обязательное поле."
	} else if date, err := time.Parse(dateLayout, page.Date); err != nil {
		page.Errors["date"] = "Введите правильную дату."
	} else {
		tx.Date = date
	}

	if page.Amount == "" {
		page.Errors["amount"] = "Обязательное поле."
	} else if amount, err := decimal.NewFromString(page.Amount); err != nil {
		page.Errors["amount"] = "Введите число."
	} else {
		tx.Amount = amount
	}

	if page.UpdatedAt != "" {
		if updatedAt, err := time.Parse(time.RFC3339Nano, page.UpdatedAt); err == nil {
			tx.UpdatedAt = updatedAt
		}
	}

	return tx, page
}

func (s *Server) applySaveError(page *formPage, err error) {
	var verr *taxonomy.ValidationError
	if errors.As(err, &verr) {
		page.Errors[verr.Field] = verr.Message
		return
	}
	log.Printf("Failed to save transaction: %v", err)
	page.NonFieldError = "Ошибка при сохранении транзакции. Попробуйте ещё раз."
}
