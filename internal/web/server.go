// Package web is the server-rendered HTML surface plus the JSON endpoints
// that drive the cascading dropdowns and the recurring-rule API.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ddsapp/cashflow/internal/ledger"
)

type Server struct {
	svc    *ledger.Service
	users  ledger.UserStore
	secret string
	http   *http.Server
}

func New(addr, sessionSecret string, svc *ledger.Service, users ledger.UserStore) *Server {
	s := &Server{
		svc:    svc,
		users:  users,
		secret: sessionSecret,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/transactions", http.StatusFound)
	})

	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)

	mux.HandleFunc("GET /transactions", s.requireUser(s.handleList))
	mux.HandleFunc("GET /transactions/create", s.requireUser(s.handleCreateForm))
	mux.HandleFunc("POST /transactions/create", s.requireUser(s.handleCreate))
	mux.HandleFunc("GET /transactions/edit/{id}", s.requireUser(s.handleEditForm))
	mux.HandleFunc("POST /transactions/edit/{id}", s.requireUser(s.handleEdit))
	mux.HandleFunc("GET /transactions/delete/{id}", s.requireUser(s.handleDeleteForm))
	mux.HandleFunc("POST /transactions/delete/{id}", s.requireUser(s.handleDelete))

	mux.HandleFunc("GET /ajax/load-categories", s.requireUser(s.handleLoadCategories))
	mux.HandleFunc("GET /ajax/load-subcategories", s.requireUser(s.handleLoadSubcategories))

	mux.HandleFunc("GET /api/recurring", s.requireUser(s.handleListRules))
	mux.HandleFunc("POST /api/recurring", s.requireUser(s.handleCreateRule))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.requireUser(s.handleDeleteRule))

	s.http = &http.Server{
		Addr:         addr,
		Handler:      logRequests(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
