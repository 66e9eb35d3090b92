// Package auth issues and validates session tokens. Tokens are signed
// HS256 JWTs that carry the subject username and an absolute expiration,
// so they verify without a lookup, but every resolve also cross-checks
// the user's stored token. Clearing or overwriting the stored token
// therefore kills a session even though the JWT itself is still valid.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mmvds/files-api/internal/apperr"
	"mmvds/files-api/model"
	"mmvds/files-api/pkg/security"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const bearerPrefix = "Bearer "

// TokenResult is the wire shape returned by a successful authentication.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	db     *gorm.DB
	hasher *security.Hasher
	secret []byte
	ttl    time.Duration
}

func NewService(db *gorm.DB, hasher *security.Hasher, secret []byte, ttl time.Duration) *Service {
	return &Service{
		db:     db,
		hasher: hasher,
		secret: secret,
		ttl:    ttl,
	}
}

// Issue signs a new token for username and persists it against the user
// row, overwriting any prior token. Concurrent logins race harmlessly,
// the last issued token wins and earlier ones stop resolving.
func (s *Service) Issue(username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token, %w", err)
	}

	err = s.db.
		Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"access_token":     signed,
			"token_expires_at": expiresAt,
		}).
		Error
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist token, %w", err)
	}

	return signed, expiresAt, nil
}

// Authenticate verifies the credentials and, on success, issues and
// persists a fresh token. An unknown username and a wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(username, password string) (*TokenResult, error) {
	var user model.User

	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthorized
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, apperr.ErrUnauthorized
	}

	signed, _, err := s.Issue(username)
	if err != nil {
		return nil, err
	}

	return &TokenResult{AccessToken: signed, TokenType: "bearer"}, nil
}

// ResolveCaller validates the Authorization header value and returns the
// calling username. Every protected operation goes through here before
// touching storage or cache.
func (s *Service) ResolveCaller(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", apperr.ErrUnauthorized
	}

	tokenStr := strings.TrimPrefix(header, bearerPrefix)

	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.ErrExpired
		}

		return "", apperr.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", apperr.ErrInvalidToken
	}

	var user model.User

	if err := s.db.Where("username = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrExpired
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	// The token verified on its own, now cross-check the stored session.
	// A missing stored token means the session was never opened or was
	// logged out; a different stored token means a newer login rotated
	// this one out.
	if user.AccessToken == nil || *user.AccessToken != tokenStr {
		return "", apperr.ErrExpired
	}

	if user.TokenExpiresAt != nil && user.TokenExpiresAt.Before(time.Now()) {
		return "", apperr.ErrExpired
	}

	return claims.Subject, nil
}
