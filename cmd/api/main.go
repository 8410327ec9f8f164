package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/classifier"
	"github.com/Harish-hex/SIH-HealthTwin/config"
	"github.com/Harish-hex/SIH-HealthTwin/database"
	"github.com/Harish-hex/SIH-HealthTwin/handlers"
	"github.com/Harish-hex/SIH-HealthTwin/ingest"
	"github.com/Harish-hex/SIH-HealthTwin/logger"
	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "healthtwin-api")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := database.Migrate(db); err != nil {
		return err
	}
	lg.Info("database ready", zap.String("driver", cfg.Database.Driver))

	repo := repository.New(db, lg)
	if _, err := repo.SeedWorkers(ctx); err != nil {
		return err
	}

	model := loadClassifier(cfg.Model, lg)

	cache, err := services.NewCacheService(cfg.Redis, lg)
	if err != nil {
		lg.Warn("redis unavailable, running without cache and live alerts", zap.Error(err))
	}
	defer func() { _ = cache.Close() }()

	creds := services.DefaultCredentials()
	if cfg.Auth.UsersFile != "" {
		if creds, err = services.LoadCredentials(cfg.Auth.UsersFile); err != nil {
			return err
		}
	}
	provider, err := services.NewStaticProvider(creds)
	if err != nil {
		return err
	}
	authService := services.NewAuthService(cfg.JWT, provider, cfg.Auth)
	predictions := services.NewPredictionService(model, repo, cache, lg)

	if cfg.MQTT.URL != "" {
		sub := ingest.NewSubscriber(cfg.MQTT, predictions, lg)
		if err := sub.Start(ctx); err != nil {
			lg.Warn("mqtt ingest not connected yet", zap.Error(err))
		}
		defer sub.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Dependencies{
		Repo:        repo,
		Predictions: predictions,
		Auth:        authService,
		Cache:       cache,
		CORS:        cfg.CORS,
		Logger:      lg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", zap.String("addr", srv.Addr), zap.String("model_version", model.Version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadClassifier never fails: a model that cannot be loaded is replaced by
// classifier.Unavailable so the read endpoints keep serving.
func loadClassifier(cfg config.ModelConfig, lg *zap.Logger) classifier.Classifier {
	if cfg.Backend == "remote" {
		lg.Info("using remote model", zap.String("url", cfg.URL))
		return classifier.NewRemote(cfg.URL, cfg.Version, time.Duration(cfg.TimeoutSec)*time.Second)
	}

	var (
		m   *classifier.KNN
		err error
	)
	if cfg.Path != "" {
		m, err = classifier.Load(cfg.Path)
	} else {
		m, err = classifier.LoadDefault()
	}
	if err != nil {
		lg.Error("model load failed, predictions disabled", zap.String("path", cfg.Path), zap.Error(err))
		return classifier.Unavailable{Err: err}
	}
	lg.Info("model loaded", zap.String("path", cfg.Path), zap.String("version", m.Version()))
	return m
}
