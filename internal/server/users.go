package server

import (
	"net/http"
	"time"

	"blog-platform/internal/authz"
)

const tokenCookie = "jwt"

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.creds.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, newUserView(user))
}

func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.creds.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		HttpOnly: true,
		Secure:   !s.cfg.IsDev,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
	if s.cfg.TokenTTL > 0 {
		cookie.MaxAge = int(s.cfg.TokenTTL / time.Second)
	}
	http.SetCookie(w, cookie)

	writeData(w, http.StatusOK, loginResponse{Token: token, User: newUserView(user)})
}

// HandleLogout only clears the cookie. Issued tokens stay valid until they expire.
func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   !s.cfg.IsDev,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	writeData(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (s *Server) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.creds.Profile(r.Context(), ActorFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newUserView(user))
}

func (s *Server) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	if err := authz.Authorize(ActorFromContext(r.Context()), authz.ActionCreate, authz.AdminOnly()); err != nil {
		writeError(w, r, err)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.creds.CreateAdmin(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, newUserView(user))
}
