package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"techblog/internal/config"
	"techblog/internal/models"
)

type Server struct {
	DB  *sqlx.DB
	Cfg *config.Config
	Log *slog.Logger

	tmpl   map[string]*template.Template
	router *mux.Router

	CookieName string
}

func New(db *sqlx.DB, cfg *config.Config, log *slog.Logger, templateDir string) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	s := &Server{DB: db, Cfg: cfg, Log: log, tmpl: templates, CookieName: "session_id"}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	// pages
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/post/{id:[0-9]+}", s.handleSinglePost).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handleSignupPage).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.requirePage(s.handleDashboard)).Methods(http.MethodGet)

	// json api
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/users/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/users/password", s.requireAPI(s.handleUpdatePassword)).Methods(http.MethodPut)
	api.HandleFunc("/posts", s.requireAPI(s.handleCreatePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}", s.requireAPI(s.handleUpdatePost)).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id:[0-9]+}", s.requireAPI(s.handleDeletePost)).Methods(http.MethodDelete)
	api.HandleFunc("/comments", s.requireAPI(s.handleCreateComment)).Methods(http.MethodPost)
	api.HandleFunc("/votes", s.requireAPI(s.handleVote)).Methods(http.MethodPut)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.Log.Error("render", "template", name, "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("write json", "err", err)
	}
}

func (s *Server) jsonMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"message": msg})
}

// storeError maps store failures onto the HTTP error convention: validation
// 400 with field detail, bad credentials 401, ownership 403, missing post
// 404, everything else logged and reported as a generic 500.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": ve.Message, "field": ve.Field})
	case errors.Is(err, models.ErrInvalidCredentials):
		s.jsonMessage(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, models.ErrNotPostOwner):
		s.jsonMessage(w, http.StatusForbidden, "not your post")
	case errors.Is(err, models.ErrPostNotFound):
		s.jsonMessage(w, http.StatusNotFound, "No post found with this id")
	case errors.Is(err, models.ErrUserNotFound):
		s.jsonMessage(w, http.StatusNotFound, "No user found with this id")
	default:
		s.Log.Error("store", "err", err)
		s.jsonMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
