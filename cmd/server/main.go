package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"importsvc/application"
	"importsvc/database"
	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
	"importsvc/infrastructure/catalog"
	"importsvc/infrastructure/config"
	"importsvc/infrastructure/repositories"
	"importsvc/interfaces/api/handlers"
	"importsvc/logging"
	"importsvc/platform/events"
)

func main() {
	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies
	deps := buildDependencies(db, cfg, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps)
}

// RepositoryBundle holds all repository implementations
type RepositoryBundle struct {
	JobRepo  contracts.JobRepository
	ItemRepo contracts.ItemRepository
	UserRepo contracts.UserRepository
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	AuthService      application.AuthService
	JobService       application.JobService
	DashboardService application.DashboardService
	ImportRunner     *application.ImportRunner
	EventBus         *events.JobEventBus
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	DB     *database.Database
	Logger *logging.Logger

	Repos    *RepositoryBundle
	Services *ApplicationServices

	AuthHandlers      *handlers.AuthHandlers
	JobHandlers       *handlers.JobHandlers
	DashboardHandlers *handlers.DashboardHandlers
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildRepositories creates all repository implementations with read/write database separation
func buildRepositories(db *database.Database) *RepositoryBundle {
	return &RepositoryBundle{
		JobRepo:  repositories.NewSQLJobRepository(db),
		ItemRepo: repositories.NewSQLItemRepository(db),
		UserRepo: repositories.NewSQLUserRepository(db),
	}
}

func buildApplicationServices(repos *RepositoryBundle, cfg *config.AppConfig, logger *logging.Logger) *ApplicationServices {
	eventBus := events.NewJobEventBus()

	catalogClient := catalog.NewClient(cfg.Catalog, logger)
	targets := jobs.DefaultSourceTargets()

	runner := application.NewImportRunner(
		repos.JobRepo,
		repos.ItemRepo,
		catalogClient,
		eventBus,
		application.NewRandomFailureDecider(cfg.Import.FailureRate),
		targets,
		cfg.Import,
		logger,
	)

	return &ApplicationServices{
		AuthService:      application.NewAuthService(repos.UserRepo, cfg.Auth, logger),
		JobService:       application.NewJobService(repos.JobRepo, repos.ItemRepo, targets, logger),
		DashboardService: application.NewDashboardService(repos.JobRepo, repos.ItemRepo),
		ImportRunner:     runner,
		EventBus:         eventBus,
	}
}

func buildDependencies(db *database.Database, cfg *config.AppConfig, logger *logging.Logger) *Dependencies {
	repos := buildRepositories(db)
	services := buildApplicationServices(repos, cfg, logger)
	setupEventHandlers(services)

	return &Dependencies{
		DB:                db,
		Logger:            logger,
		Repos:             repos,
		Services:          services,
		AuthHandlers:      handlers.NewAuthHandlers(services.AuthService, logger),
		JobHandlers:       handlers.NewJobHandlers(services.JobService, services.ImportRunner, logger),
		DashboardHandlers: handlers.NewDashboardHandlers(services.DashboardService, logger),
	}
}

// setupEventHandlers wires up the event handlers for job notifications
func setupEventHandlers(services *ApplicationServices) {
	notificationHandlers := events.NewNotificationEventHandlers()
	notificationHandlers.RegisterHandlers(services.EventBus)
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"database": stats,
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/register", deps.AuthHandlers.Register)
		api.Post("/auth/login", deps.AuthHandlers.Login)

		api.Group(func(authed chi.Router) {
			authed.Use(handlers.RequireAuth(deps.Services.AuthService))

			authed.Post("/import_jobs", deps.JobHandlers.Create)
			authed.Get("/import_jobs", deps.JobHandlers.List)
			authed.Get("/import_jobs/{jobID}", deps.JobHandlers.Get)

			authed.Get("/dashboard", deps.DashboardHandlers.Stats)
		})
	})

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("importsvc", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}

		// Let in-flight import runs reach a terminal status before closing
		// the database.
		logger.Info("Waiting for import runs to finish...")
		deps.Services.ImportRunner.Wait()

		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
