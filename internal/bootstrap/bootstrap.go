package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentportal/internal/app/controllers"
	appMigrations "github.com/yigit/studentportal/internal/app/migrations"
	appRepos "github.com/yigit/studentportal/internal/app/repositories"
	appRoutes "github.com/yigit/studentportal/internal/app/routes"
	appServices "github.com/yigit/studentportal/internal/app/services"
	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/db"
	appMiddleware "github.com/yigit/studentportal/internal/middleware"
	pkgAuth "github.com/yigit/studentportal/internal/pkg/auth"
	"github.com/yigit/studentportal/internal/pkg/events"
	"github.com/yigit/studentportal/internal/pkg/helpers"
	"github.com/yigit/studentportal/internal/pkg/logger"
	"github.com/yigit/studentportal/internal/seed"
)

// Idle login limiter buckets are forgotten after this long
const limiterIdleTTL = 10 * time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      appServices.AuthService
	CourseService    appServices.CourseService
	HealthService    appServices.HealthService
	AuthController   *appControllers.AuthController
	CourseController *appControllers.CourseController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	LoginLimiter     *appMiddleware.IPRateLimiter
	Repos            *appRepos.Repositories
	TokenService     *pkgAuth.TokenService
	SessionStore     pkgAuth.SessionStore
	Publisher        events.Publisher
	Scheduler        *cron.Cron
	Logger           zerolog.Logger

	redis *redis.Client
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		},
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and optionally runs
// migrations and the demo seed.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database, lgr).Migrate(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, database, cfg.Auth.PasswordMode, lgr); err != nil {
			// the seed is a convenience; a partial seed must not block startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:    lgr,
		Publisher: events.NopPublisher{},
		Scheduler: cron.New(),
	}

	deps.Repos = appRepos.NewRepositories(database)

	verifier, err := appServices.NewCredentialVerifier(cfg.Auth.PasswordMode, deps.Repos.StudentRepository)
	if err != nil {
		return nil, err
	}

	if cfg.Session.Enabled {
		if err := deps.setupSessions(cfg); err != nil {
			deps.Close()
			return nil, err
		}
	}

	if cfg.Events.Enabled {
		deps.Publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, lgr)
		lgr.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("Login audit events enabled")
	}

	deps.AuthService = appServices.NewAuthService(appServices.AuthDeps{
		Verifier:  verifier,
		Students:  deps.Repos.StudentRepository,
		Tokens:    deps.TokenService,
		Sessions:  deps.SessionStore,
		Publisher: deps.Publisher,
		Logger:    lgr,
	})
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.StudentRepository,
		deps.Repos.CourseRepository,
		deps.Repos.SubjectRepository,
		lgr,
	)
	deps.HealthService = appServices.NewHealthService(deps.Repos.HealthRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	if cfg.Server.LoginRatePerSecond > 0 {
		deps.LoginLimiter = appMiddleware.NewIPRateLimiter(cfg.Server.LoginRatePerSecond, cfg.Server.LoginBurst)
		if _, err := deps.Scheduler.AddFunc("@every 5m", func() {
			if n := deps.LoginLimiter.Cleanup(limiterIdleTTL); n > 0 {
				lgr.Debug().Int("removed", n).Msg("Dropped idle login limiters")
			}
		}); err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to schedule limiter cleanup: %w", err)
		}
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(deps.HealthService)

	deps.Scheduler.Start()
	return deps, nil
}

// setupSessions builds the token service and the configured session store
func (d *Dependencies) setupSessions(cfg *config.Config) error {
	d.TokenService = pkgAuth.NewTokenService(pkgAuth.TokenConfig{
		SecretKey: cfg.Session.Secret,
		TTL:       helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour),
		Issuer:    cfg.Session.Issuer,
	})

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := pkgAuth.NewRedisSessionStore(d.redis)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis session store: %w", err)
		}
		d.SessionStore = store
		d.Logger.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")

	default:
		store := pkgAuth.NewMemorySessionStore()
		if _, err := d.Scheduler.AddFunc(cfg.Session.PurgeSchedule, func() {
			if n := store.Purge(); n > 0 {
				d.Logger.Debug().Int("removed", n).Msg("Purged expired sessions")
			}
		}); err != nil {
			return fmt.Errorf("invalid session purge schedule %q: %w", cfg.Session.PurgeSchedule, err)
		}
		d.SessionStore = store
		d.Logger.Info().Msg("Using in-memory session store")
	}
	return nil
}

// Close stops background jobs and releases external clients
func (d *Dependencies) Close() error {
	var errs error
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.Publisher != nil {
		errs = errors.Join(errs, d.Publisher.Close())
	}
	if d.redis != nil {
		errs = errors.Join(errs, d.redis.Close())
	}
	return errs
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
		appMiddleware.ErrorExposure(cfg.Server.ExposeInternalErrors),
		appMiddleware.RequestTimeout(helpers.ParseDuration(cfg.Server.RequestTimeout, 5*time.Second)),
	)

	appRoutes.SetupRouter(router,
		appRoutes.Options{
			RequireSession: cfg.Auth.RequireSession,
			LoginLimiter:   deps.LoginLimiter,
		},
		deps.AuthController,
		deps.CourseController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", appMiddleware.RequestIDHeader)
	c.ExposeHeaders = []string{appMiddleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
