package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"techblog/internal/models"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	posts, err := models.ListPosts(s.DB)
	if err != nil {
		s.storeError(w, err)
		return
	}
	user := s.currentUser(r)
	s.render(w, "homepage", map[string]any{
		"Posts":    posts,
		"User":     user,
		"LoggedIn": user != nil,
	})
}

func (s *Server) handleSinglePost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	post, err := models.GetPost(s.DB, id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	user := s.currentUser(r)
	s.render(w, "single-post", map[string]any{
		"Post":     post,
		"User":     user,
		"LoggedIn": user != nil,
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "login", map[string]any{"LoggedIn": false})
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if s.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "signup", map[string]any{"LoggedIn": false})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, user *models.User) {
	posts, err := models.ListPostsByUser(s.DB, user.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.render(w, "dashboard", map[string]any{
		"Posts":    posts,
		"User":     user,
		"LoggedIn": true,
	})
}
