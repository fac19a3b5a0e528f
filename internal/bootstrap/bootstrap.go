package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/skillkhoj/backend/internal/app/auth"
	appControllers "github.com/skillkhoj/backend/internal/app/controllers"
	appMigrations "github.com/skillkhoj/backend/internal/app/migrations"
	appRepos "github.com/skillkhoj/backend/internal/app/repositories"
	appRoutes "github.com/skillkhoj/backend/internal/app/routes"
	appServices "github.com/skillkhoj/backend/internal/app/services"
	"github.com/skillkhoj/backend/internal/config"
	"github.com/skillkhoj/backend/internal/db"
	appMiddleware "github.com/skillkhoj/backend/internal/middleware"
	pkgAuth "github.com/skillkhoj/backend/internal/pkg/auth"
	"github.com/skillkhoj/backend/internal/pkg/cache"
	"github.com/skillkhoj/backend/internal/pkg/helpers"
	"github.com/skillkhoj/backend/internal/pkg/logger"
	"github.com/skillkhoj/backend/internal/scheduler"
	"github.com/skillkhoj/backend/internal/seed"
)

// Stores are the persistence dependencies the services are built on.
// Production wiring uses the PostgreSQL repositories; tests pass in-memory fakes.
type Stores struct {
	Users        appServices.UserStore
	Courses      appServices.CourseStore
	Jobs         appServices.JobStore
	Applications appServices.ApplicationStore
	Tx           appServices.Transactor
	DB           appControllers.Pinger
	Cache        cache.Cache
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	UserService        *appServices.UserService
	CourseService      *appServices.CourseService
	JobService         *appServices.JobService
	ApplicationService *appServices.ApplicationService
	Controllers        appRoutes.Controllers
	AuthMiddleware     *appMiddleware.AuthMiddleware
	JWTService         *pkgAuth.JWTService
	Hasher             *pkgAuth.Hasher
	Scheduler          *scheduler.Scheduler
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	var overridden []string
	for _, name := range config.EnvVars() {
		if _, ok := os.LookupEnv(name); ok {
			overridden = append(overridden, name)
		}
	}
	lgr.Debug().Strs("env", overridden).Msg("Configuration overridden from environment")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.MigrateOnStart {
		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(cfg.Database.URL, lgr).Up(); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
	}

	return database, nil
}

// SetupCache connects to Redis when configured. Without a URL, or when Redis
// is unreachable, the job list is served uncached.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, cache.Cache) {
	if cfg.Redis.URL == "" {
		lgr.Info().Msg("Redis not configured, job list cache disabled")
		return nil, cache.Noop{}
	}
	client, err := db.NewRedisClient(context.Background(), cfg.Redis.URL)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, job list cache disabled")
		return nil, cache.Noop{}
	}
	lgr.Info().Msg("Redis connection established, job list cache enabled")
	return client, cache.NewRedisCache(client, "skillkhoj:")
}

// PostgresStores wires the PostgreSQL repositories as service stores.
func PostgresStores(database *db.PostgresDB, c cache.Cache) Stores {
	repos := appRepos.NewRepositories(database)
	return Stores{
		Users:        repos.UserRepository,
		Courses:      repos.CourseRepository,
		Jobs:         repos.JobRepository,
		Applications: repos.ApplicationRepository,
		Tx:           database,
		DB:           database,
		Cache:        c,
	}
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, stores Stores, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.Expiration, pkgAuth.DefaultTokenExpiration),
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.Hasher = pkgAuth.NewHasher(cfg.Auth.BcryptCost)

	jobCache := appServices.NewJobListCache(stores.Cache,
		helpers.ParseDuration(cfg.Redis.JobsTTL, 5*time.Minute), logger.Component("job-cache"))

	deps.AuthService = appServices.NewAuthService(
		stores.Users,
		deps.JWTService,
		deps.Hasher,
		appServices.AuthOptions{AllowAdminRegistration: cfg.Auth.AllowAdminRegistration},
		logger.Component("auth"),
	)
	deps.UserService = appServices.NewUserService(stores.Users, stores.Courses, stores.Jobs, jobCache, logger.Component("users"))
	deps.CourseService = appServices.NewCourseService(stores.Courses, stores.Users, logger.Component("courses"))
	deps.JobService = appServices.NewJobService(stores.Jobs, stores.Users, stores.Tx, jobCache, logger.Component("jobs"))
	deps.ApplicationService = appServices.NewApplicationService(
		stores.Applications,
		stores.Jobs,
		stores.Users,
		stores.Tx,
		jobCache,
		logger.Component("applications"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, appAuth.DefaultPolicy())

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AuthService, logger.Component("auth-controller")),
		Course:    appControllers.NewCourseController(deps.CourseService),
		User:      appControllers.NewUserController(deps.UserService),
		Student:   appControllers.NewStudentController(deps.UserService, deps.JobService, deps.ApplicationService, deps.CourseService, logger.Component("student-controller")),
		Recruiter: appControllers.NewRecruiterController(deps.UserService, deps.JobService, logger.Component("recruiter-controller")),
		Admin:     appControllers.NewAdminController(deps.ApplicationService, stores.DB),
	}

	deps.Scheduler = scheduler.New(deps.ApplicationService, cfg.Scheduler.ReconcileSpec, logger.Component("scheduler"))

	return deps, nil
}

// SeedDefaultData creates sample data when enabled. Errors are logged, never fatal.
func SeedDefaultData(ctx context.Context, cfg *config.Config, stores Stores, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	err := seed.CreateDefaultData(ctx, stores.Courses, stores.Users, deps.Hasher, seed.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = helpers.SplitAndTrim(cfg.Server.AllowedOrigins)
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
