// Package token issues and verifies the two token classes the service uses:
// session tokens signed with the global secret, and password-reset tokens
// signed with a per-user secret. Both are HS256 JWTs carrying the user ID in
// the "sub" claim; only the key material and lifetime differ.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authshop/auth-service/internal/domain"
)

const (
	SessionTTL = 24 * time.Hour
	ResetTTL   = 1 * time.Hour
)

type Service struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewService(secret []byte) *Service {
	return &Service{
		secret:     secret,
		sessionTTL: SessionTTL,
		resetTTL:   ResetTTL,
	}
}

// ResetSecret derives the signing key for a user's reset tokens: the
// immutable user ID concatenated with the global secret. Note the derivation
// does not include any state that changes on a successful reset, so an issued
// reset token stays verifiable until its own expiry even after it has been
// used once.
func (s *Service) ResetSecret(userID string) []byte {
	return append([]byte(userID), s.secret...)
}

func (s *Service) IssueSession(userID string) (string, error) {
	return sign(userID, s.secret, s.sessionTTL)
}

// VerifySession returns the user ID carried by the token, or
// domain.ErrTokenInvalid on a bad signature, malformed token, or expiry.
func (s *Service) VerifySession(tokenString string) (string, error) {
	return verify(tokenString, s.secret)
}

func (s *Service) IssueReset(userID string) (string, error) {
	return sign(userID, s.ResetSecret(userID), s.resetTTL)
}

func (s *Service) VerifyReset(tokenString, userID string) (string, error) {
	return verify(tokenString, s.ResetSecret(userID))
}

func sign(userID string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func verify(tokenString string, key []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", domain.ErrTokenInvalid
	}
	return userID, nil
}
