package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yaqubtawab/siwes-backend/internal/app/auth"
	appControllers "github.com/yaqubtawab/siwes-backend/internal/app/controllers"
	appMigrations "github.com/yaqubtawab/siwes-backend/internal/app/migrations"
	appRepos "github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	appRoutes "github.com/yaqubtawab/siwes-backend/internal/app/routes"
	appServices "github.com/yaqubtawab/siwes-backend/internal/app/services"
	"github.com/yaqubtawab/siwes-backend/internal/config"
	"github.com/yaqubtawab/siwes-backend/internal/db"
	appMiddleware "github.com/yaqubtawab/siwes-backend/internal/middleware"
	pkgAuth "github.com/yaqubtawab/siwes-backend/internal/pkg/auth"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/cache"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
	"github.com/yaqubtawab/siwes-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	LogbookService       appServices.LogbookService
	ClearanceService     appServices.ClearanceService
	SupervisorService    appServices.SupervisorService
	StatsService         appServices.StatsService
	AuthController       *appControllers.AuthController
	LogbookController    *appControllers.LogbookController
	SupervisorController *appControllers.SupervisorController
	ClearanceController  *appControllers.ClearanceController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	StatsCache           cache.StatsCache
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore initializes the store adapter selected by the configured
// database driver. The returned close function releases the underlying
// resources, if any.
func SetupStore(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Info().Msg("Using in-memory store adapter")
		repos := appRepos.NewMemoryRepositories()
		seedDefaultData(repos, lgr)
		return repos, func() {}, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		dbPool := database.Pool

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(dbPool)

		migrationsDir := "migrations"
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			database.Close()
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		repos := appRepos.NewPostgresRepositories(dbPool)
		seedDefaultData(repos, lgr)
		return repos, database.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

// seedDefaultData provisions demo accounts; a failure is logged but never
// blocks startup
func seedDefaultData(repos *appRepos.Repositories, lgr zerolog.Logger) {
	if err := seed.CreateDefaultData(context.Background(), repos); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupCache initializes the stats cache selected by the configured cache
// driver.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) (cache.StatsCache, error) {
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		statsCache, err := cache.NewRedisStatsCache(cache.RedisConfig{
			Host:     cfg.Cache.Redis.Host,
			Port:     cfg.Cache.Redis.Port,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}, cfg.StatsTTL())
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis")
			return nil, err
		}
		lgr.Info().Str("host", cfg.Cache.Redis.Host).Msg("Using redis stats cache")
		return statsCache, nil

	case config.CacheMemory:
		lgr.Info().Dur("ttl", cfg.StatsTTL()).Msg("Using in-memory stats cache")
		return cache.NewMemoryStatsCache(cfg.StatsTTL()), nil

	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Cache.Driver)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, statsCache cache.StatsCache, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos, StatsCache: statsCache}

	deps.AuthzService = appAuth.NewAuthorizationService(repos.Users)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenExpiry(),
		RefreshTokenExp: cfg.RefreshTokenExpiry(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	notifier := appServices.NewLogNotifier()

	deps.StatsService = appServices.NewStatsService(repos.Logbook, statsCache)

	deps.ClearanceService = appServices.NewClearanceService(
		repos.Clearance,
		repos.Logbook,
		repos.Users,
		deps.StatsService,
		notifier,
	)

	deps.LogbookService = appServices.NewLogbookService(
		repos.Logbook,
		deps.AuthzService,
		deps.StatsService,
		notifier,
	)

	deps.SupervisorService = appServices.NewSupervisorService(
		repos.Users,
		repos.Logbook,
		repos.Clearance,
		deps.AuthzService,
		deps.ClearanceService,
		deps.StatsService,
		notifier,
	)

	deps.AuthService = appServices.NewAuthService(
		repos.Users,
		repos.Tokens,
		deps.ClearanceService,
		deps.JWTService,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.LogbookController = appControllers.NewLogbookController(deps.LogbookService)
	deps.SupervisorController = appControllers.NewSupervisorController(deps.SupervisorService)
	deps.ClearanceController = appControllers.NewClearanceController(
		deps.ClearanceService,
		deps.SupervisorService,
		deps.AuthzService,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.LogbookController,
		deps.SupervisorController,
		deps.ClearanceController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
