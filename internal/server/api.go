package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"techblog/internal/models"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := models.RegisterUser(s.DB, body.Username, body.Email, body.Password, s.Cfg.BcryptCost)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := models.AuthenticateUser(s.DB, body.Email, body.Password)
	if err != nil {
		s.storeError(w, err)
		return
	}
	sess, err := models.CreateSession(s.DB, user.ID, s.Cfg.SessionLifetime)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.setSessionCookie(w, sess)
	s.jsonMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.CookieName); err == nil {
		if sid, ok := s.verifyCookie(cookie.Value); ok {
			if err := models.RevokeSession(s.DB, sid); err != nil {
				s.storeError(w, err)
				return
			}
		}
	}
	s.clearSessionCookie(w)
	s.jsonMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := models.UpdatePassword(s.DB, user.ID, body.Password, s.Cfg.BcryptCost); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		Title   string `json:"title"`
		PostURL string `json:"post_url"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	post, err := models.CreatePost(s.DB, user.ID, body.Title, body.PostURL)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	post, err := models.UpdatePost(s.DB, id, user.ID, body.Title)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := models.DeletePost(s.DB, id, user.ID); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		PostID      int    `json:"post_id"`
		CommentText string `json:"comment_text"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	comment, err := models.CreateComment(s.DB, user.ID, body.PostID, body.CommentText)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		PostID int `json:"post_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	count, err := models.AddVote(s.DB, user.ID, body.PostID, s.Cfg.AllowRepeatVotes)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"vote_count": count})
}
