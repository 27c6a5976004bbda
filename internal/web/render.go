package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcMap = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("base.html").Funcs(funcMap).
		ParseFS(templatesFS, "templates/base.html", "templates/"+name))
}

var (
	loginTmpl    = parsePage("login.html")
	registerTmpl = parsePage("register.html")
	listTmpl     = parsePage("transaction_list.html")
	formTmpl     = parsePage("transaction_form.html")
	deleteTmpl   = parsePage("transaction_delete.html")
)

func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Failed to render template: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
