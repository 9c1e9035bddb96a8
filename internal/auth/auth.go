// Package auth guards the admin panel with a shared password and a signed
// session cookie.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

const adminSubject = "admin"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidSession  = errors.New("invalid or expired session")
)

// CheckPassword compares input against the configured password. A bcrypt
// hash wins over the plaintext value when both are set.
func CheckPassword(input, plain, hash string) error {
	if hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if plain == "" || subtle.ConstantTimeCompare([]byte(input), []byte(plain)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Sessions issues and verifies admin session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions signs tokens with secret. An empty secret gets a random one,
// which logs every admin out on restart.
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{secret: key, ttl: ttl, now: time.Now}, nil
}

// TTL is how long an issued token stays valid.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue returns a signed token for the admin.
func (s *Sessions) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and subject.
func (s *Sessions) Verify(tokenString string) error {
	if tokenString == "" {
		return ErrInvalidSession
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Subject != adminSubject {
		return ErrInvalidSession
	}
	return nil
}
