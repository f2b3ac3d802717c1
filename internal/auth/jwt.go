package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken        = errors.New("JWT token is invalid")
	ErrExpiredJWTToken        = errors.New("JWT token is expired")
	ErrInvalidJWTRefreshToken = errors.New("JWT Refresh token is invalid")
)

// Token types carried in the "typ" claim, a token is accepted only where its type is expected.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

const (
	defaultJWTRefreshDuration = 720 * time.Hour
	defaultJWTDuration        = 10 * time.Minute
)

type JWTManagerInterface interface {
	GenerateAccessJWT(userID string, duration time.Duration) (string, error)
	ValidateAccessToken(tokenString string) (string, error)
	GenerateRefreshJWT(userID, tokenHash string, duration time.Duration) (string, error)
	ValidateRefreshToken(tokenString, tokenHash string) error
	ExtractUserIDFromRefreshToken(tokenString string) (string, error)
}

type AccessTokenCustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"typ"`
	jwt.StandardClaims
}

type RefreshTokenCustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"typ"`
	CusKey    string `json:"cus_key"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret []byte
}

func NewJWTManager(secret string) JWTManagerInterface {
	return &JWTManager{secret: []byte(secret)}
}

// generateCustomKey binds a refresh token to the user's hash token. Logout
// rotates the hash token, which revokes every refresh token issued before.
func (j *JWTManager) generateCustomKey(userID, tokenHash string) string {
	h := hmac.New(sha256.New, []byte(tokenHash))
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func standardClaims(userID string, duration time.Duration) jwt.StandardClaims {
	now := time.Now()
	return jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(duration).Unix(),
	}
}

func (j *JWTManager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWTManager) parse(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredJWTToken
		}
		return nil, ErrInvalidJWTToken
	}
	if !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	return token, nil
}

func (j *JWTManager) GenerateAccessJWT(userID string, duration time.Duration) (string, error) {
	return j.sign(&AccessTokenCustomClaims{
		UserID:         userID,
		TokenType:      tokenTypeAccess,
		StandardClaims: standardClaims(userID, duration),
	})
}

func (j *JWTManager) GenerateRefreshJWT(userID, tokenHash string, duration time.Duration) (string, error) {
	return j.sign(&RefreshTokenCustomClaims{
		UserID:         userID,
		TokenType:      tokenTypeRefresh,
		CusKey:         j.generateCustomKey(userID, tokenHash),
		StandardClaims: standardClaims(userID, duration),
	})
}

func (j *JWTManager) ValidateAccessToken(tokenString string) (string, error) {
	claims := &AccessTokenCustomClaims{}
	if _, err := j.parse(tokenString, claims); err != nil {
		return "", err
	}
	if claims.UserID == "" || claims.TokenType != tokenTypeAccess {
		return "", ErrInvalidJWTToken
	}
	return claims.UserID, nil
}

func (j *JWTManager) ExtractUserIDFromRefreshToken(tokenString string) (string, error) {
	claims := &RefreshTokenCustomClaims{}
	if _, err := j.parse(tokenString, claims); err != nil {
		return "", err
	}
	if claims.UserID == "" || claims.TokenType != tokenTypeRefresh {
		return "", ErrInvalidJWTToken
	}
	return claims.UserID, nil
}

func (j *JWTManager) ValidateRefreshToken(tokenString, tokenHash string) error {
	claims := &RefreshTokenCustomClaims{}
	if _, err := j.parse(tokenString, claims); err != nil {
		return err
	}
	if claims.UserID == "" || claims.TokenType != tokenTypeRefresh {
		return ErrInvalidJWTToken
	}
	expected := j.generateCustomKey(claims.UserID, tokenHash)
	if !hmac.Equal([]byte(claims.CusKey), []byte(expected)) {
		return ErrInvalidJWTRefreshToken
	}
	return nil
}
