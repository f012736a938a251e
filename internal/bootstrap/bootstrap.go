package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/selimk/coursecompass/internal/app/controllers"
	appMigrations "github.com/selimk/coursecompass/internal/app/migrations"
	appRepos "github.com/selimk/coursecompass/internal/app/repositories"
	appRoutes "github.com/selimk/coursecompass/internal/app/routes"
	appServices "github.com/selimk/coursecompass/internal/app/services"
	"github.com/selimk/coursecompass/internal/catalog"
	"github.com/selimk/coursecompass/internal/config"
	"github.com/selimk/coursecompass/internal/db"
	"github.com/selimk/coursecompass/internal/genai"
	appMiddleware "github.com/selimk/coursecompass/internal/middleware"
	"github.com/selimk/coursecompass/internal/pkg/logger"
	"github.com/selimk/coursecompass/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CollegeService           appServices.CollegeService
	StudentService           appServices.StudentService
	RecommendationService    appServices.RecommendationService
	CollegeController        *appControllers.CollegeController
	StudentController        *appControllers.StudentController
	RecommendationController *appControllers.RecommendationController
	Repos                    *appRepos.Repositories
	CatalogClient            *catalog.Client
	Generator                genai.Generator
	Logger                   zerolog.Logger
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

	lgr := log.Logger // Get the configured global logger
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

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed demo data outside production (after migrations)
	if strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateDemoData(context.Background(), dbPool, lgr); err != nil {
			// Log the error but don't necessarily fail the startup
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.CatalogClient = catalog.NewClient(cfg.CatalogTimeout())

	// One model client for the whole process; the engine only sees the
	// Generator interface.
	deps.Generator = genai.NewGeminiClient(genai.GeminiConfig{
		APIKey:   cfg.GenAI.APIKey,
		Model:    cfg.GenAI.Model,
		Endpoint: cfg.GenAI.Endpoint,
		Timeout:  cfg.GenAITimeout(),
	})

	deps.CollegeService = appServices.NewCollegeService(
		deps.Repos.CollegeRepository,
		deps.Repos.QuestionRepository,
		deps.Repos.RecommendationSettingRepository,
		deps.Repos.CollegeUserRepository,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.CollegeRepository,
		deps.Repos.StudentRepository,
	)
	deps.RecommendationService = appServices.NewRecommendationService(
		deps.Repos.CollegeRepository,
		deps.Repos.StudentRepository,
		deps.Repos.QuestionRepository,
		deps.Repos.RecommendationSettingRepository,
		deps.CatalogClient,
		deps.Generator,
		cfg.GenAITimeout(),
	)

	deps.CollegeController = appControllers.NewCollegeController(deps.CollegeService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.RecommendationController = appControllers.NewRecommendationController(deps.RecommendationService)

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(lgr))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.CollegeController,
		deps.StudentController,
		deps.RecommendationController,
	)

	// Operational endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
