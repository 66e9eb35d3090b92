package health

import (
	"context"
	"path/filepath"
	"testing"

	"mmvds/files-api/model"

	"github.com/redis/go-redis/v9"
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

// unreachableRedis returns a client that fails every command fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            "127.0.0.1:1",
		DialTimeout:     1,
		MaxRetries:      -1,
		PoolTimeout:     1,
		ReadTimeout:     1,
		WriteTimeout:    1,
		MinRetryBackoff: -1,
		MaxRetryBackoff: -1,
	})
}

func TestPingAllCacheDown(t *testing.T) {
	s := NewService(testDB(t), unreachableRedis(), t.TempDir())

	report := s.PingAll(context.Background())

	// A cache outage must not hide the other two subsystems
	assert.Nil(t, report.Cache)
	require.NotNil(t, report.DB)
	require.NotNil(t, report.Storage)
	assert.GreaterOrEqual(t, *report.DB, 0.0)
	assert.GreaterOrEqual(t, *report.Storage, 0.0)
}

func TestPingAllStorageDown(t *testing.T) {
	// A storage root that doesn't exist makes the write probe fail
	s := NewService(testDB(t), unreachableRedis(), filepath.Join(t.TempDir(), "missing", "root"))

	report := s.PingAll(context.Background())

	assert.Nil(t, report.Storage)
	assert.NotNil(t, report.DB)
}
