// Package api contains all endpoints available
package api

import (
	"time"

	"mmvds/files-api/db"
	"mmvds/files-api/internal/auth"
	"mmvds/files-api/internal/cache"
	"mmvds/files-api/internal/health"
	"mmvds/files-api/internal/storage"
	"mmvds/files-api/middleware"
	"mmvds/files-api/pkg/security"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Hasher   *security.Hasher
	Sessions *auth.Service
	Files    *storage.Service
	Cache    cache.Store
	Health   *health.Service
}

// NewRouter wires every dependency and mounts the endpoints. config.Setup
// must have run first; everything stateful is initialized here, once,
// before any traffic is served.
func NewRouter() (*API, error) {
	a := &API{}

	database, err := db.New()
	if err != nil {
		return nil, err
	}
	a.DB = database

	makeLogger()

	storageRoot := viper.GetString("storage.path")

	redisClient := cache.NewClient()
	cacheTTL := time.Duration(viper.GetInt("redis.cache_ttl_seconds")) * time.Second

	a.Hasher = security.NewHasher()
	a.Sessions = auth.NewService(
		database,
		a.Hasher,
		[]byte(viper.GetString("jwt.secret")),
		time.Duration(viper.GetInt("jwt.token_ttl_minutes"))*time.Minute,
	)
	a.Files = storage.NewService(database, storageRoot)
	a.Cache = cache.NewRedisStore(redisClient, cacheTTL)
	a.Health = health.NewService(database, redisClient, storageRoot)

	a.mountRoutes()

	return a, nil
}

// mountRoutes builds the engine and attaches middleware and endpoints to
// the already-initialized dependencies.
func (a *API) mountRoutes() {
	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	a.Router.MaxMultipartMemory = 5 << 20

	session := middleware.NewSessionMiddleware(a.Sessions, a.DB)

	// The origin filter runs before anything else on every endpoint,
	// register and ping included
	main := router.Group("/api/v1", middleware.NewOriginFilter())

	if viper.GetBool("ratelimit.enabled") {
		main.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: viper.GetInt("ratelimit.rps"),
			Burst:             viper.GetInt("ratelimit.burst"),
		}))
	}

	{
		// HEAD /api/v1/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/v1/ping			-> Probes the backing subsystems
		main.GET("/ping", a.Ping)

		// POST /api/v1/register		-> Registers a new user
		main.POST("/register", a.UserRegister)

		// POST /api/v1/auth			-> Verifies credentials and issues a token
		main.POST("/auth", a.UserAuth)
	}

	files := main.Group("/files", session)
	{
		// GET /api/v1/files			-> Lists the caller's files
		files.GET("", a.FileList)

		// POST /api/v1/files/upload		-> Uploads a new file under a logical path
		files.POST("/upload", a.FileUpload)

		// GET /api/v1/files/download		-> Serves a file by ID or logical path
		files.GET("/download", a.FileDownload)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()

	if level, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
