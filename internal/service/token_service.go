package service

import (
	"errors"
	"fmt"
	"time"

	"studygen/internal/config"
	"studygen/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenType = "session"

// SessionClaims are the JWT claims carried by a session token. Sessions
// are anonymous; the token only proves ownership of a session ID.
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
type TokenService interface {
	IssueSessionToken(sessionID string) (string, error)
	ValidateSessionToken(tokenString string) (string, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. Token lifetime follows the
// session TTL so a token never outlives its session by much.
func NewTokenService(cfg *config.Config) (TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}
	return &tokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Session, 24*time.Hour),
	}, nil
}

func (t *tokenService) IssueSessionToken(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign session token", err)
	}
	return signed, nil
}

func (t *tokenService) ValidateSessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.NewUnauthorizedError("session token has expired")
		}
		return "", domain.NewUnauthorizedError("invalid session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", domain.NewUnauthorizedError("invalid session token")
	}
	if claims.TokenType != sessionTokenType {
		return "", domain.NewUnauthorizedError("invalid token type")
	}
	if claims.Subject == "" {
		return "", domain.NewUnauthorizedError("session token has no subject")
	}
	return claims.Subject, nil
}
