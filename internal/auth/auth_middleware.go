package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/BudgetManager/internal/logger"
	"github.com/sebuszqo/BudgetManager/internal/user"
)

const refreshTokenCookie = "refresh_token"

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			userID, err := s.jwtManager.ValidateAccessToken(tokenString)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if _, err := s.userService.GetUserByID(r.Context(), userID); err != nil {
				s.writeUserLookupError(w, r, err)
				return
			}

			log := logger.WithFields(logger.FromContext(r.Context()), map[string]interface{}{"user_id": userID})
			ctx := logger.WithContext(WithUserID(r.Context(), userID), log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *service) JWTRefreshTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(refreshTokenCookie)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Refresh token is required")
				return
			}
			tokenString := cookie.Value

			userID, err := s.jwtManager.ExtractUserIDFromRefreshToken(tokenString)
			if err != nil {
				if errors.Is(err, ErrExpiredJWTToken) {
					writeJSONError(w, http.StatusUnauthorized, ErrExpiredJWTToken.Error())
					return
				}
				writeJSONError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
				return
			}

			existingUser, err := s.userService.GetUserByID(r.Context(), userID)
			if err != nil {
				s.writeUserLookupError(w, r, err)
				return
			}
			if err := s.jwtManager.ValidateRefreshToken(tokenString, existingUser.HashToken); err != nil {
				writeJSONError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func (s *service) writeUserLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, user.ErrUserNotFound) {
		writeJSONError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}
	log := logger.FromContext(r.Context())
	log.Error().Err(err).Msg("Failed to load authenticated user")
	writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
}

// writeJSONError writes an error response in JSON format
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
