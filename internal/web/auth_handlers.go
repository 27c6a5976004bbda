package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/ddsapp/cashflow/internal/auth"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
)

type authPage struct {
	Title    string
	Username string
	Email    string
	Error    string
	Message  string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	page := authPage{Title: "Вход"}
	if r.URL.Query().Get("registered") == "1" {
		page.Message = "Регистрация прошла успешно! Теперь вы можете войти."
	}
	render(w, loginTmpl, page)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		render(w, loginTmpl, authPage{
			Title:    "Вход",
			Username: username,
			Error:    "Неверное имя пользователя или пароль.",
		})
		return
	}

	token, err := auth.GenerateToken(s.secret, user.UserID, sessionTTL)
	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.setSession(w, token)
	http.Redirect(w, r, "/transactions", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, registerTmpl, authPage{Title: "Регистрация"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	password2 := r.PostFormValue("password2")

	page := authPage{Title: "Регистрация", Username: username, Email: email}

	switch {
	case username == "":
		page.Error = "Укажите имя пользователя."
	case len(password) < 8:
		page.Error = "Пароль должен содержать не менее 8 символов."
	case password != password2:
		page.Error = "Пароли не совпадают."
	}
	if page.Error != "" {
		render(w, registerTmpl, page)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, ledger.ErrExists) {
			page.Error = "Пользователь с таким именем уже существует."
			render(w, registerTmpl, page)
			return
		}
		log.Printf("Failed to create user: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}
