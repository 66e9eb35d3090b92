// Package health probes the backing subsystems and reports how long each
// one took to answer. A failing subsystem reports an absent measurement
// instead of an error, so one outage never hides the state of the others.
package health

import (
	"context"
	"os"
	"path"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report carries one measurement per subsystem, in seconds. A nil value
// means the probe failed.
type Report struct {
	DB      *float64 `json:"db"`
	Cache   *float64 `json:"cache"`
	Storage *float64 `json:"storage"`
}

type Service struct {
	db          *gorm.DB
	redis       *redis.Client
	storageRoot string
}

func NewService(db *gorm.DB, redisClient *redis.Client, storageRoot string) *Service {
	return &Service{
		db:          db,
		redis:       redisClient,
		storageRoot: storageRoot,
	}
}

// PingAll runs the three probes concurrently and always returns all
// three keys.
func (s *Service) PingAll(ctx context.Context) *Report {
	report := &Report{}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		report.DB = s.pingDatabase(ctx)
	}()

	go func() {
		defer wg.Done()
		report.Cache = s.pingCache(ctx)
	}()

	go func() {
		defer wg.Done()
		report.Storage = s.pingStorage()
	}()

	wg.Wait()

	return report
}

func (s *Service) pingDatabase(ctx context.Context) *float64 {
	start := time.Now()

	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		zap.L().Warn("Database probe failed", zap.Error(err))
		return nil
	}

	return seconds(start)
}

func (s *Service) pingCache(ctx context.Context) *float64 {
	start := time.Now()

	if err := s.redis.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Cache probe failed", zap.Error(err))
		return nil
	}

	return seconds(start)
}

func (s *Service) pingStorage() *float64 {
	start := time.Now()

	if err := os.WriteFile(path.Join(s.storageRoot, "testfile.txt"), []byte("test"), 0o644); err != nil {
		zap.L().Warn("Storage probe failed", zap.Error(err))
		return nil
	}

	return seconds(start)
}

func seconds(start time.Time) *float64 {
	elapsed := time.Since(start).Seconds()
	return &elapsed
}
