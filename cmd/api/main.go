package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "pir-integrity/docs" // This is for Swagger
	"pir-integrity/internal/auth"
	"pir-integrity/internal/catalog"
	"pir-integrity/internal/config"
	"pir-integrity/internal/database"
	"pir-integrity/internal/handlers"
	"pir-integrity/internal/logger"
	"pir-integrity/internal/middleware"
	"pir-integrity/internal/monitor"
	"pir-integrity/internal/repository"
	"pir-integrity/internal/scheduler"
	"pir-integrity/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title PIR Integrity API
// @version 1.0
// @description Integrity and ethics assessment engine for the PIR HR platform

// @contact.name API Support
// @contact.email support@pir-integrity.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db.DB)
	assessmentRepo := repository.NewAssessmentRepository(db.DB)
	responseRepo := repository.NewResponseRepository(db.DB)
	analysisRepo := repository.NewAnalysisRepository(db.DB)
	indicatorRepo := repository.NewIndicatorRepository(db.DB)

	// Load the question catalog
	questionCatalog := catalog.New(catalogRepo)
	if err := questionCatalog.Load(); err != nil {
		slog.Error("Failed to load question catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Question catalog loaded",
		"categories", len(questionCatalog.Categories()),
		"questions", questionCatalog.RequiredCount(),
	)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	responseService := service.NewResponseService(responseRepo, assessmentRepo, questionCatalog)
	analysisService := service.NewAnalysisService(responseRepo, analysisRepo, assessmentRepo, questionCatalog, &cfg.Engine)
	scoringService := service.NewScoringService(indicatorRepo, analysisRepo, responseRepo, assessmentRepo, questionCatalog, &cfg.Engine)

	// Initialize the live alert monitor
	liveMonitor := monitor.New(&cfg.Monitor)
	liveMonitor.Start()
	defer liveMonitor.Stop()

	// Initialize scheduler
	schedulerService := scheduler.NewScheduler(assessmentRepo, &cfg.Scheduler)
	schedulerService.Start()
	defer schedulerService.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	assessmentHandler := handlers.NewAssessmentHandler(responseService)
	responseHandler := handlers.NewResponseHandler(responseService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, responseService)
	scoringHandler := handlers.NewScoringHandler(scoringService, responseService)
	catalogHandler := handlers.NewCatalogHandler(questionCatalog)
	monitorHandler := handlers.NewMonitorHandler(liveMonitor)

	// Setup router
	mux := http.NewServeMux()

	// Catalog routes
	mux.Handle("GET /api/v1/catalog/categories",
		authMw.Authenticate(http.HandlerFunc(catalogHandler.GetCategories)))
	mux.Handle("GET /api/v1/catalog/questions",
		authMw.Authenticate(http.HandlerFunc(catalogHandler.GetQuestions)))

	// Assessment routes
	mux.Handle("POST /api/v1/assessments",
		authMw.Authenticate(http.HandlerFunc(assessmentHandler.CreateAssessment)))
	mux.Handle("GET /api/v1/assessments",
		authMw.Authenticate(http.HandlerFunc(assessmentHandler.GetMyAssessments)))
	mux.Handle("GET /api/v1/assessments/{id}",
		authMw.Authenticate(http.HandlerFunc(assessmentHandler.GetAssessment)))
	mux.Handle("GET /api/v1/assessments/{id}/progress",
		authMw.Authenticate(http.HandlerFunc(assessmentHandler.GetProgress)))

	// Response routes
	mux.Handle("PUT /api/v1/assessments/{id}/responses/{questionId}",
		authMw.Authenticate(http.HandlerFunc(responseHandler.SubmitResponse)))

	// Analysis and scoring routes
	mux.Handle("POST /api/v1/assessments/{id}/analysis",
		authMw.Authenticate(http.HandlerFunc(analysisHandler.RunAnalysis)))
	mux.Handle("GET /api/v1/assessments/{id}/analysis",
		authMw.Authenticate(http.HandlerFunc(analysisHandler.GetAnalysis)))
	mux.Handle("POST /api/v1/assessments/{id}/score",
		authMw.Authenticate(http.HandlerFunc(scoringHandler.Score)))
	mux.Handle("GET /api/v1/assessments/{id}/result",
		authMw.Authenticate(http.HandlerFunc(scoringHandler.GetResult)))

	// Monitor routes
	mux.Handle("POST /api/v1/monitor/sessions",
		authMw.Authenticate(http.HandlerFunc(monitorHandler.StartSession)))
	mux.Handle("PUT /api/v1/monitor/sessions/{id}",
		authMw.Authenticate(http.HandlerFunc(monitorHandler.UpdateSession)))
	mux.Handle("GET /api/v1/monitor/sessions/{id}/alerts",
		authMw.Authenticate(http.HandlerFunc(monitorHandler.GetAlerts)))
	mux.Handle("DELETE /api/v1/monitor/sessions/{id}",
		authMw.Authenticate(http.HandlerFunc(monitorHandler.EndSession)))

	// Admin routes
	mux.Handle("POST /api/v1/admin/catalog/refresh",
		authMw.Authenticate(
			authMw.RequireRole(middleware.RoleHRAdmin)(
				http.HandlerFunc(catalogHandler.RefreshCatalog),
			),
		),
	)
	mux.Handle("DELETE /api/v1/admin/assessments/{id}/score",
		authMw.Authenticate(
			authMw.RequireRole(middleware.RoleHRAdmin)(
				http.HandlerFunc(scoringHandler.ResetScoring),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
