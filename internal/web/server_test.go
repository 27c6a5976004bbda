package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/auth"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/memstore"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	svc := ledger.NewService(mem, mem)
	return New(":0", testSecret, svc, mem), mem
}

func createTestUser(t *testing.T, mem *memstore.Store) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{Username: "alice", PasswordHash: hash}
	if err := mem.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func sessionFor(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest("GET", "/transactions", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestUnauthenticatedAjaxGets401(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/ajax/load-categories", "/api/recurring"} {
		rec := doRequest(s, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("%s: Content-Type = %q", path, ct)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	s, mem := newTestServer(t)
	createTestUser(t, mem)

	form := url.Values{"username": {"alice"}, "password": {"password123"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(s, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("no session cookie set")
	}
	if userID, err := auth.ParseToken(testSecret, session.Value); err != nil || userID != 1 {
		t.Errorf("session token userID = %d, err = %v", userID, err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s, mem := newTestServer(t)
	createTestUser(t, mem)

	form := url.Values{"username": {"alice"}, "password": {"nope"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (form re-rendered)", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Неверное имя пользователя или пароль.") {
		t.Error("error message missing from response")
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			t.Error("session cookie set on failed login")
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestServer(t)

	form := url.Values{"username": {"bob"}, "password": {"short"}, "password2": {"short"}}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "не менее 8 символов") {
		t.Error("password length message missing")
	}
}

func TestLoadCategories(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	req := httptest.NewRequest("GET", "/ajax/load-categories?type_value=income", nil)
	req.AddCookie(sessionFor(t, user.UserID))
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var opts []taxonomy.Option
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(opts) != 4 {
		t.Fatalf("income categories = %d, want 4", len(opts))
	}
	if opts[0].Value != "salary" || opts[0].Label != "Зарплата" {
		t.Errorf("first option = %+v", opts[0])
	}
}

// Absent or unknown parent values yield an empty JSON array, not an error.
func TestLoadCategoriesEmptyParent(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	for _, q := range []string{"", "?type_value=bogus"} {
		req := httptest.NewRequest("GET", "/ajax/load-categories"+q, nil)
		req.AddCookie(sessionFor(t, user.UserID))
		rec := doRequest(s, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", q, rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("%q: body = %q, want []", q, body)
		}
	}
}

func TestLoadSubcategories(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	req := httptest.NewRequest("GET", "/ajax/load-subcategories?category_value=food", nil)
	req.AddCookie(sessionFor(t, user.UserID))
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var opts []taxonomy.Option
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("food subcategories = %d, want 3", len(opts))
	}
}

func postForm(t *testing.T, s *Server, user *models.User, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionFor(t, user.UserID))
	return doRequest(s, req)
}

func TestCreateTransaction(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	form := url.Values{
		"date":        {"2025-08-02"},
		"status":      {"personal"},
		"type":        {"expense"},
		"category":    {"food"},
		"subcategory": {"products"},
		"amount":      {"5000.00"},
		"comment":     {"Продукты"},
	}
	rec := postForm(t, s, user, "/transactions/create", form)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302; body: %s", rec.Code, rec.Body.String())
	}

	list, err := mem.ListTransactions(context.Background(), user.UserID, ledger.Filter{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("stored %d transactions, want 1", len(list))
	}
	if list[0].Category != taxonomy.CategoryFood || !list[0].Amount.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("stored transaction = %+v", list[0])
	}
}

func TestCreateTransactionBrokenTriple(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	form := url.Values{
		"date":     {"2025-08-02"},
		"status":   {"personal"},
		"type":     {"income"},
		"category": {"food"},
		"amount":   {"100"},
	}
	rec := postForm(t, s, user, "/transactions/create", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (form re-rendered)", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "не относится к типу") {
		t.Error("taxonomy error message missing from re-rendered form")
	}

	list, _ := mem.ListTransactions(context.Background(), user.UserID, ledger.Filter{})
	if len(list) != 0 {
		t.Errorf("stored %d transactions after rejected create, want 0", len(list))
	}
}

func TestCreateTransactionSyntacticErrors(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	form := url.Values{
		"date":     {"02.08.2025"}, // wrong layout
		"status":   {"personal"},
		"type":     {"expense"},
		"category": {"food"},
		"amount":   {"не число"},
	}
	rec := postForm(t, s, user, "/transactions/create", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Введите правильную дату.") {
		t.Error("date error missing")
	}
	if !strings.Contains(body, "Введите число.") {
		t.Error("amount error missing")
	}
}

func TestEditForeignTransaction(t *testing.T) {
	s, mem := newTestServer(t)
	owner := createTestUser(t, mem)

	other := &models.User{Username: "mallory", PasswordHash: "x"}
	if err := mem.CreateUser(context.Background(), other); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tx := &models.Transaction{
		UserID:   owner.UserID,
		Date:     time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		Status:   taxonomy.StatusPersonal,
		Type:     taxonomy.TypeExpense,
		Category: taxonomy.CategoryFood,
		Amount:   decimal.RequireFromString("100"),
	}
	if err := mem.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	req := httptest.NewRequest("GET", "/transactions/edit/1", nil)
	req.AddCookie(sessionFor(t, other.UserID))
	rec := doRequest(s, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign edit form status = %d, want 404", rec.Code)
	}

	rec = postForm(t, s, other, "/transactions/delete/1", url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", rec.Code)
	}
}

func TestListRendersAndFilters(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)
	ctx := context.Background()

	a := &models.Transaction{
		UserID: user.UserID, Date: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		Status: taxonomy.StatusPersonal, Type: taxonomy.TypeExpense,
		Category: taxonomy.CategoryFood, Amount: decimal.RequireFromString("100"),
		Comment: "личный расход",
	}
	b := &models.Transaction{
		UserID: user.UserID, Date: time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
		Status: taxonomy.StatusBusiness, Type: taxonomy.TypeIncome,
		Category: taxonomy.CategorySalary, Amount: decimal.RequireFromString("200"),
		Comment: "бизнес-доход",
	}
	for _, tx := range []*models.Transaction{a, b} {
		if err := mem.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/transactions?status=personal&filter_mode=and", nil)
	req.AddCookie(sessionFor(t, user.UserID))
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "личный расход") {
		t.Error("matching transaction missing from list")
	}
	if strings.Contains(body, "бизнес-доход") {
		t.Error("filtered-out transaction present in list")
	}
}

func TestRecurringAPI(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	payload := `{
		"status": "personal",
		"type": "expense",
		"category": "infrastructure",
		"subcategory": "vps",
		"amount": "300.00",
		"comment": "VPS hosting",
		"rrule": "FREQ=MONTHLY;BYMONTHDAY=1",
		"dtstart": "2025-09-01T00:00:00Z"
	}`
	req := httptest.NewRequest("POST", "/api/recurring", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionFor(t, user.UserID))
	rec := doRequest(s, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/recurring", nil)
	req.AddCookie(sessionFor(t, user.UserID))
	rec = doRequest(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var rules []*models.RecurringRule
	if err := json.Unmarshal(rec.Body.Bytes(), &rules); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rules) != 1 || rules[0].RRule != "FREQ=MONTHLY;BYMONTHDAY=1" {
		t.Errorf("rules = %+v", rules)
	}

	req = httptest.NewRequest("DELETE", "/api/recurring/1", nil)
	req.AddCookie(sessionFor(t, user.UserID))
	rec = doRequest(s, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	due, _ := mem.ListRules(context.Background(), user.UserID)
	if len(due) != 0 {
		t.Errorf("rules after delete = %d, want 0", len(due))
	}
}

func TestRecurringAPIRejectsBrokenTriple(t *testing.T) {
	s, mem := newTestServer(t)
	user := createTestUser(t, mem)

	payload := `{
		"status": "personal",
		"type": "income",
		"category": "food",
		"amount": "100",
		"rrule": "FREQ=DAILY",
		"dtstart": "2025-09-01T00:00:00Z"
	}`
	req := httptest.NewRequest("POST", "/api/recurring", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionFor(t, user.UserID))
	rec := doRequest(s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
