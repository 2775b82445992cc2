package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edulink/mentorhub/internal/app/controllers"
	"github.com/edulink/mentorhub/internal/app/migrations"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/app/routes"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/config"
	"github.com/edulink/mentorhub/internal/db"
	"github.com/edulink/mentorhub/internal/jobs"
	"github.com/edulink/mentorhub/internal/middleware"
	"github.com/edulink/mentorhub/internal/pkg/ai"
	"github.com/edulink/mentorhub/internal/pkg/auth"
	"github.com/edulink/mentorhub/internal/pkg/hackernews"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
	"github.com/edulink/mentorhub/internal/pkg/logger"
	"github.com/edulink/mentorhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *services.AuthService
	UserService            *services.UserService
	ProblemService         *services.ProblemService
	ChatService            *services.ChatService
	EventService           *services.EventService
	KnowledgeService       *services.KnowledgeService
	AnnouncementService    *services.AnnouncementService
	AuthController         *controllers.AuthController
	UserController         *controllers.UserController
	ProblemController      *controllers.ProblemController
	ChatController         *controllers.ChatController
	EventController        *controllers.EventController
	KnowledgeController    *controllers.KnowledgeController
	AnnouncementController *controllers.AnnouncementController
	AuthMiddleware         *middleware.AuthMiddleware
	Repos                  *repositories.Repositories
	JWTService             *auth.JWTService
	WorkerPool             *jobs.WorkerPool
	Logger                 zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := migrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = repositories.NewRepositories(dbPool)

	deps.JWTService = auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	enricher, err := ai.NewClient(cfg.AIClientConfig())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize AI client")
		return nil, fmt.Errorf("failed to initialize AI client: %w", err)
	}

	newsClient := hackernews.NewClient(cfg.News.BaseURL)

	deps.AuthService = services.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = services.NewUserService(deps.Repos.UserRepository, lgr)
	deps.ProblemService = services.NewProblemService(deps.Repos.ProblemRepository, deps.Repos.UserRepository, lgr)
	deps.ChatService = services.NewChatService(
		deps.Repos.ConversationRepository,
		deps.Repos.ProblemRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.EventService = services.NewEventService(deps.Repos.EventRepository, lgr)
	deps.AnnouncementService = services.NewAnnouncementService(
		deps.Repos.AnnouncementRepository,
		newsClient,
		cfg.News.PageSize,
		lgr,
	)

	// Knowledge enrichment runs through the job queue. The service is built
	// before the pool so its handler can be registered, then wired to the
	// pool for enqueueing and status lookups.
	jobStore := jobs.NewRepository(dbPool)
	deps.KnowledgeService = services.NewKnowledgeService(deps.Repos.KnowledgeRepository, nil, enricher, lgr)
	deps.WorkerPool = jobs.NewWorkerPool(jobStore, map[string]jobs.Handler{
		services.JobTypeKnowledgeEnrich: deps.KnowledgeService.HandleEnrichJob,
	}, lgr, cfg.Jobs.WorkerCount)
	deps.KnowledgeService.SetQueue(deps.WorkerPool)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = controllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = controllers.NewUserController(deps.UserService, lgr)
	deps.ProblemController = controllers.NewProblemController(deps.ProblemService, lgr)
	deps.ChatController = controllers.NewChatController(deps.ChatService, lgr)
	deps.EventController = controllers.NewEventController(deps.EventService, lgr)
	deps.KnowledgeController = controllers.NewKnowledgeController(deps.KnowledgeService, lgr)
	deps.AnnouncementController = controllers.NewAnnouncementController(deps.AnnouncementService, lgr)

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
	router.Use(middleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	routes.SetupSwagger(router)

	routes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ProblemController,
		deps.ChatController,
		deps.EventController,
		deps.KnowledgeController,
		deps.AnnouncementController,
		deps.AuthMiddleware,
	)

	return router
}
