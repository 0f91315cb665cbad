package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/campusportal/internal/app/controllers"
	appMigrations "github.com/yigit/campusportal/internal/app/migrations"
	appRepos "github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	appRoutes "github.com/yigit/campusportal/internal/app/routes"
	appServices "github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/config"
	"github.com/yigit/campusportal/internal/db"
	appMiddleware "github.com/yigit/campusportal/internal/middleware"
	pkgAuth "github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/filestorage"
	"github.com/yigit/campusportal/internal/pkg/helpers"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/pkg/websocket"
	"github.com/yigit/campusportal/internal/seed"
	schema "github.com/yigit/campusportal/migrations"
)

// UploadsRoute is the URL prefix blobs are served under
const UploadsRoute = "/uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Database   *db.PostgresDB // nil with the memory driver
	Repos      *appRepos.Repositories
	Storage    filestorage.FileStorage
	Hub        *websocket.Hub
	Relay      *websocket.RedisRelay // nil unless the redis relay is enabled
	Redis      *redis.Client
	JWTService *pkgAuth.JWTService
	Services   *appServices.Services

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}
	return cfg, ConfigureLogger(cfg), nil
}

// ConfigureLogger applies the logging section of cfg to the global logger
func ConfigureLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return lgr
}

// SetupDatabase opens the configured store. With the postgres driver it
// connects and applies the embedded migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, *appRepos.Repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		return nil, memory.NewRepositories(), nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx, schema.FS)
	if err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Strs("applied", applied).Msg("Database migrations successfully applied.")

	return database, appRepos.NewRepositories(database.Pool), nil
}

// SetupStorage builds the blob store selected by cfg
func SetupStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	baseURL := strings.TrimRight(cfg.Server.PublicBaseURL, "/") + UploadsRoute

	switch cfg.Storage.Driver {
	case config.StorageMinio:
		m := cfg.Storage.Minio
		return filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		}, baseURL)
	default:
		return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	}
}

// BuildDependencies initializes repositories, storage, the broadcast hub,
// services and controllers, then seeds the admin account.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr}

	var err error
	deps.Database, deps.Repos, err = SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps.Storage, err = SetupStorage(ctx, cfg)
	if err != nil {
		deps.Close()
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Hub = websocket.NewHub(cfg.Broadcast.SendBuffer, logger.Component("hub"))
	var publisher websocket.Publisher = deps.Hub
	if cfg.Broadcast.Redis.Enabled {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Broadcast.Redis.Addr,
			Password: cfg.Broadcast.Redis.Password,
			DB:       cfg.Broadcast.Redis.DB,
		})
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Broadcast.Redis.Addr, err)
		}
		deps.Relay = websocket.NewRedisRelay(deps.Redis, cfg.Broadcast.Redis.Channel, deps.Hub, logger.Component("relay"))
		publisher = deps.Relay
		lgr.Info().Str("addr", cfg.Broadcast.Redis.Addr).Msg("Broadcasting through the redis relay")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.Storage, publisher, deps.JWTService, lgr)

	if err := seed.CreateDefaultData(ctx, deps.Services.Users, cfg, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = &appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.Services.Auth),
		Sections:  appControllers.NewSectionController(deps.Services.Sections),
		Students:  appControllers.NewStudentController(deps.Services.Users),
		Files:     appControllers.NewFileController(deps.Services.Files),
		News:      appControllers.NewNewsController(deps.Services.News),
		Knowledge: appControllers.NewKnowledgeController(deps.Services.Knowledge),
		Health:    appControllers.NewHealthController(deps.Hub),
		WebSocket: websocket.NewHandler(deps.Hub, logger.Component("ws")),
	}

	return deps, nil
}

// Close releases the database pool and the redis client
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	appMiddleware.ExposeErrorDetails = cfg.Server.ExposeErrorDetails

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Logger), cors.New(corsConfig(cfg.Server.CORSOrigins)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	setupUploads(router, cfg, deps)

	return router
}

// setupUploads serves stored blobs. Local blobs are plain static files, other
// drivers stream through the storage backend.
func setupUploads(router *gin.Engine, cfg *config.Config, deps *Dependencies) {
	if local, ok := deps.Storage.(*filestorage.LocalStorage); ok {
		router.Static(UploadsRoute, filepath.Clean(local.BasePath()))
		deps.Logger.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
		return
	}
	router.GET(UploadsRoute+"/*path", filestorage.ServeHandler(deps.Storage))
	deps.Logger.Info().Str("driver", cfg.Storage.Driver).Msg("Uploads streamed from storage backend")
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
