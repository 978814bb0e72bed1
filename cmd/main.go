package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/handler"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/repositories"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/router"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/service"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/database"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/envconfig"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/flags"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	// Validate flag configuration
	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting order integrity service",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	// Load validation rules; falls back to defaults when no file is configured
	rulesFile := flagConfig.RulesFile
	if rulesFile == "" {
		rulesFile = envconfig.GetEnv("VALIDATION_RULES_FILE", "")
	}
	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		appLogger.Error("Failed to load validation rules", "path", rulesFile, "error", err)
		return
	}
	appLogger.Info("Validation rules loaded",
		"quota_tolerance", rules.QuotaTolerance,
		"rules_file", rulesFile)

	dbConfig := envconfig.LoadDatabaseConfig()

	// Establish database connection
	db, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Error("Failed to establish database connection", "error", err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	// Initialize repositories with logger and database connection
	clientRepo := repositories.NewClientRepository(appLogger, db)
	catalogRepo := repositories.NewCatalogRepository(appLogger, db)
	orderRepo := repositories.NewOrderRepository(appLogger, db)

	// Initialize services with logger
	validationService := service.NewValidationService(clientRepo, catalogRepo, rules, appLogger)
	reconciliationService := service.NewReconciliationService(clientRepo, orderRepo, appLogger)
	migrationService := service.NewMigrationService(clientRepo, orderRepo, catalogRepo, rules, appLogger)

	// Initialize handlers with logger
	validationHandler := handler.NewValidationHandler(validationService, appLogger)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService, appLogger)
	migrationHandler := handler.NewMigrationHandler(migrationService, appLogger)
	healthHandler := handler.NewHealthHandler(db, appLogger)

	mux := router.NewRouter(validationHandler, reconciliationHandler, migrationHandler, healthHandler)

	httpHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}
