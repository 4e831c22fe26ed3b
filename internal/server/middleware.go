package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"techblog/internal/models"
)

// signCookie binds a session id to this server's secret so a forged cookie
// cannot name an arbitrary session id.
func (s *Server) signCookie(sid string) string {
	mac := hmac.New(sha256.New, []byte(s.Cfg.SessionSecret))
	mac.Write([]byte(sid))
	return sid + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) verifyCookie(value string) (string, bool) {
	sid, sig, ok := strings.Cut(value, ".")
	if !ok || sid == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(s.Cfg.SessionSecret))
	mac.Write([]byte(sid))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}
	return sid, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    s.signCookie(sess.ID),
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Path: "/", MaxAge: -1, HttpOnly: true})
}

// currentUser resolves the session cookie to a user. A missing, forged,
// unknown, expired or revoked session means anonymous, never an error.
func (s *Server) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	sid, ok := s.verifyCookie(cookie.Value)
	if !ok {
		return nil
	}
	sess, err := models.GetSession(s.DB, sid)
	if err != nil || !sess.Active(time.Now()) {
		return nil
	}
	u, err := models.GetUser(s.DB, sess.UserID)
	if err != nil {
		return nil
	}
	return u
}

// requireAPI rejects unauthenticated api calls with a 401.
func (s *Server) requireAPI(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			s.jsonMessage(w, http.StatusUnauthorized, "not logged in")
			return
		}
		next(w, r, user)
	}
}

// requirePage sends unauthenticated page requests to the login page.
func (s *Server) requirePage(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

type statusRW struct {
	http.ResponseWriter
	status int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusRW{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.Log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Truncate(time.Millisecond).String(),
		)
	})
}
