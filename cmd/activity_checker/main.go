package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activity_checker/internal/client"
	"activity_checker/internal/config"
	"activity_checker/internal/infrastructure/restapi"
	"activity_checker/internal/pkg/logger"
	"activity_checker/internal/registry"
	"activity_checker/internal/repository"
	"activity_checker/internal/service"
	"activity_checker/pkg/metrics"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// logrus covers the config-loading phase; everything after runs on zap.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// Bridges zap into slog for libraries that log through the default slog.
	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() // flushes buffer, if any

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	chains := registry.New(cfg.Chains)
	zapLogger.Info("Chain registry initialized", zap.Int("chains", len(chains.All())))

	var prefsRepo repository.PreferencesRepository
	if cfg.Preferences.File != "" {
		prefsRepo = repository.NewFilePreferencesRepository(cfg.Preferences.File, chains.Default().ID)
		zapLogger.Info("Using file preferences repository", zap.String("path", cfg.Preferences.File))
	} else {
		prefsRepo = repository.NewInMemoryPreferencesRepository(chains.Default().ID)
		zapLogger.Info("Using in-memory preferences repository")
	}

	alchemyClient, err := client.NewAlchemyClient(cfg.Alchemy, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Alchemy client", zap.Error(err))
	}
	coinGeckoClient := client.NewCoinGeckoClient(cfg.CoinGecko, zapLogger)
	zapLogger.Info("Upstream clients initialized")

	activityService := service.NewActivityService(zapLogger, cfg, alchemyClient, coinGeckoClient)
	zapLogger.Info("ActivityService initialized")

	// No wallet host is injected by this binary: connect attempts report the
	// provider as unavailable. Embedders wire a real port.ProviderSource.
	walletService := service.NewWalletService(zapLogger, chains, nil, prefsRepo)
	zapLogger.Info("WalletService initialized")

	activityHandler := restapi.NewActivityHandler(activityService, chains, zapLogger)
	walletHandler := restapi.NewWalletHandler(walletService, zapLogger)
	router := restapi.SetupRouter(activityHandler, walletHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
