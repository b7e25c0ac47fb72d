package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetTokenType = "password_reset"

type Claims struct {
	Username  string `json:"username,omitempty"`
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the two token kinds the API hands out:
// session tokens and short-lived password-reset tokens.
type TokenIssuer struct {
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
}

func NewTokenIssuer(secret string, tokenTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		resetTTL: resetTTL,
	}
}

func (t *TokenIssuer) Issue(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) IssueReset(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: resetTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.resetTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}

// Verify checks a session token and returns the user id it was issued to.
// Password-reset tokens are rejected here.
func (t *TokenIssuer) Verify(tokenStr string) (uuid.UUID, error) {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != "" {
		return uuid.Nil, errors.New("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid user ID in token")
	}
	return userID, nil
}

// VerifyReset checks a password-reset token and returns the user it belongs
// to. Session tokens are rejected.
func (t *TokenIssuer) VerifyReset(tokenStr string) (uuid.UUID, error) {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != resetTokenType {
		return uuid.Nil, errors.New("invalid reset token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid user ID in token")
	}
	return userID, nil
}
