package auth

import (
	"path/filepath"
	"testing"
	"time"

	"mmvds/files-api/internal/apperr"
	"mmvds/files-api/model"
	"mmvds/files-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.File{}))

	return db
}

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	return NewService(testDB(t), security.NewHasher(), []byte("test-secret"), ttl)
}

func registerUser(t *testing.T, s *Service, username, password string) {
	t.Helper()

	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)

	require.NoError(t, s.db.Create(&model.User{
		ID:           "uid-" + username,
		Username:     username,
		PasswordHash: hash,
	}).Error)
}

func TestAuthenticateAndResolve(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	result, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)

	username, err := s.ResolveCaller("Bearer " + result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	_, err := s.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s := newTestService(t, time.Hour)

	_, err := s.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestReauthenticationRotatesToken(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	first, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)

	// Token timestamps have second resolution, make sure the second
	// token differs from the first
	time.Sleep(1100 * time.Millisecond)

	second, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	// The first token is still within its embedded lifetime, but the
	// stored session was overwritten by the newer login
	_, err = s.ResolveCaller("Bearer " + first.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrExpired)

	username, err := s.ResolveCaller("Bearer " + second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestResolveEmbeddedExpiration(t *testing.T) {
	s := newTestService(t, -time.Minute)
	registerUser(t, s, "alice", "password123")

	result, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)

	_, err = s.ResolveCaller("Bearer " + result.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestResolveLapsedStoredSession(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	result, err := s.Authenticate("alice", "password123")
	require.NoError(t, err)

	// Age the stored expiration without touching the token itself
	lapsed := time.Now().Add(-time.Minute)
	require.NoError(t, s.db.
		Model(&model.User{}).
		Where("username = ?", "alice").
		Update("token_expires_at", lapsed).
		Error)

	_, err = s.ResolveCaller("Bearer " + result.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestResolveNoStoredToken(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	signed, _, err := s.Issue("alice")
	require.NoError(t, err)

	// Logout semantics: clearing the stored token kills the session
	require.NoError(t, s.db.
		Model(&model.User{}).
		Where("username = ?", "alice").
		Update("access_token", nil).
		Error)

	_, err = s.ResolveCaller("Bearer " + signed)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestResolveMissingHeader(t *testing.T) {
	s := newTestService(t, time.Hour)

	_, err := s.ResolveCaller("")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResolveWrongScheme(t *testing.T) {
	s := newTestService(t, time.Hour)

	_, err := s.ResolveCaller("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResolveMalformedToken(t *testing.T) {
	s := newTestService(t, time.Hour)

	_, err := s.ResolveCaller("Bearer not.a.jwt")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestResolveWrongSecret(t *testing.T) {
	s := newTestService(t, time.Hour)
	registerUser(t, s, "alice", "password123")

	signed, _, err := s.Issue("alice")
	require.NoError(t, err)

	other := NewService(s.db, s.hasher, []byte("different-secret"), time.Hour)

	_, err = other.ResolveCaller("Bearer " + signed)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}
