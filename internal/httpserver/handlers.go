package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	domain "foodie/backend/internal/domain/authorization"
)

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/api/v1/authorization/register", http.HandlerFunc(s.handleRegister))
	s.router.Handle("/api/v1/authorization/login", http.HandlerFunc(s.handleLogin))

	authenticated := s.authMiddleware
	s.router.Handle("/api/v1/authorization/logout", authenticated(http.HandlerFunc(s.handleLogout)))
	s.router.Handle("/api/v1/recipes", authenticated(http.HandlerFunc(s.handleRecipes)))
	s.router.Handle("/api/v1/recipes/", authenticated(http.HandlerFunc(s.handleRecipeByID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Name == "" {
		writeFail(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.Email == "" {
		writeFail(w, http.StatusBadRequest, "email is required")
		return
	}
	if payload.Password == "" {
		writeFail(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := s.authService.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			writeFail(w, http.StatusConflict, err.Error())
		default:
			writeFail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"data": map[string]any{"user": user},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Email == "" {
		writeFail(w, http.StatusBadRequest, "email is required")
		return
	}
	if payload.Password == "" {
		writeFail(w, http.StatusBadRequest, "password is required")
		return
	}

	token, err := s.authService.Login(r.Context(), domain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeFail(w, http.StatusBadRequest, err.Error())
		default:
			writeFail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   s.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, nil)
}
