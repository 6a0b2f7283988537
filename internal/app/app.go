package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"currconv/internal/adapters/httpclient"
	"currconv/internal/adapters/postgres"
	"currconv/internal/api"
	"currconv/internal/config"
	"currconv/internal/convert"
	"currconv/internal/convert/handler"
	"currconv/internal/platform/db"
	httpserver "currconv/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Schema
	if appCfg.DbServer.Migrate {
		if err = db.Migrate(startupCtx, appCfg.DbServer); err != nil {
			logrus.WithError(err).Error("Error applying migrations")
			return err
		}
		logrus.Info("✅ Migrations applied")
	}

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Live rate provider client
	providerTimeout := time.Duration(appCfg.Provider.TimeoutSeconds) * time.Second
	if providerTimeout <= 0 {
		providerTimeout = 5 * time.Second
	}
	providerBaseURL := strings.TrimSuffix(appCfg.Provider.BaseURL, "/")
	if appCfg.Provider.APIKey == "" {
		return fmt.Errorf("rate provider api key is required")
	}
	// The timeout lives on the per-request context inside the resolver, so the
	// base client carries none of its own.
	providerClient := httpclient.NewRateProviderClient(
		&http.Client{},
		fmt.Sprintf("%s/%s/latest", providerBaseURL, appCfg.Provider.APIKey),
	)

	// Repositories
	rateRepo := postgres.NewRateRepository(pool)
	historyRepo := postgres.NewConversionHistoryRepository(pool)

	// Core pipeline
	resolver := convert.NewResolver(providerClient, rateRepo, providerTimeout)
	conversionService := convert.NewService(resolver, historyRepo, rateRepo)
	requestValidator := convert.NewRequestValidator()

	// Stored-rates refresh scheduler
	if appCfg.Scheduler.Enabled {
		refreshInterval := time.Duration(appCfg.Scheduler.RefreshIntervalSec) * time.Second
		scheduler := convert.NewRefreshScheduler(providerClient, rateRepo, refreshInterval, providerTimeout)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		// Start scheduler tied to root context
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	conversionHandler := handler.NewConversionHandler(requestValidator, conversionService)
	router := api.NewRouter(conversionHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
