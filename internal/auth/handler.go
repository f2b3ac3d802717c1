package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type Handler struct {
	authService  Service
	secureCookie bool
}

func NewHandler(authService Service, secureCookie bool) *Handler {
	return &Handler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func (s *Handler) refreshCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    value,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/api/refresh/token",
	}
	if !expires.IsZero() {
		cookie.Expires = expires
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func (s *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	_, accessToken, refreshToken, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, s.refreshCookie(refreshToken, time.Now().Add(defaultJWTRefreshDuration)))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": accessToken,
		},
	})
}

// HandleLogout runs behind the refresh token middleware.
func (s *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}
	if err := s.authService.Logout(r.Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	http.SetCookie(w, s.refreshCookie("", time.Unix(0, 0)))
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logout successful",
	})
}

func (s *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}

	accessToken, newRefreshToken, err := s.authService.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	http.SetCookie(w, s.refreshCookie(newRefreshToken, time.Now().Add(defaultJWTRefreshDuration)))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": accessToken,
		},
	})
}
