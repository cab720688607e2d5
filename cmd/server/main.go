package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mirna-salem/petprofiles/internal/application"
	"github.com/mirna-salem/petprofiles/internal/auth"
	"github.com/mirna-salem/petprofiles/internal/config"
	profileDomain "github.com/mirna-salem/petprofiles/internal/domain/profile"
	"github.com/mirna-salem/petprofiles/internal/events"
	"github.com/mirna-salem/petprofiles/internal/handler"
	"github.com/mirna-salem/petprofiles/internal/platform/database"
	"github.com/mirna-salem/petprofiles/internal/platform/health"
	"github.com/mirna-salem/petprofiles/internal/platform/logger"
	"github.com/mirna-salem/petprofiles/internal/repository"
	"github.com/mirna-salem/petprofiles/internal/storage"
)

const serviceName = "petprofiles"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.Log.Level, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.HTTP.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("database", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Provider),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := health.NewHandler(log)

	// Profile repository
	profileRepo, db, err := openProfileRepository(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize profile store", zap.Error(err))
	}
	if db != nil {
		defer func() { _ = database.Close(db) }()
		healthHandler.Add("database", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}

	// Blob store
	blobStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize blob store", zap.Error(err))
	}
	if closer, ok := blobStore.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	ensureCtx, ensureCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := blobStore.EnsureContainer(ensureCtx); err != nil {
		// Uploads retry container creation, so a slow store is not fatal here.
		log.Warn("could not ensure storage container",
			zap.String("container", cfg.Storage.Container),
			zap.Error(err),
		)
	}
	ensureCancel()
	healthHandler.Add("storage", blobStore.Ping)

	// Event publisher
	publisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
	defer func() { _ = publisher.Close() }()

	// Application services
	profileService := application.NewProfileService(profileRepo, publisher, log)
	imageService := application.NewImageService(blobStore, publisher, application.ImageOptions{
		ProxyBasePath:  cfg.Images.ProxyBasePath,
		PublicBaseURL:  cfg.Storage.PublicBaseURL,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
		SignedURLTTL:   cfg.Images.SignedURLTTL,
	}, log)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Profiles:       handler.NewProfileHandler(profileService),
		Images:         handler.NewImageHandler(imageService, cfg.Images.MaxUploadBytes),
		Health:         healthHandler,
		Authenticator:  auth.NewStaticKeyAuthenticator(cfg.Auth.HeaderName, cfg.Auth.APIKey),
		AuthHeader:     cfg.Auth.HeaderName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

// openProfileRepository returns the configured repository, plus the gorm
// handle when the postgres driver is used.
func openProfileRepository(cfg *config.ServiceConfig, log *zap.Logger) (profileDomain.ProfileRepository, *gorm.DB, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory profile store, data is lost on restart")
		return repository.NewMemoryProfileRepository(), nil, nil
	}

	db, err := database.Connect(database.PostgresConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.ProfileModel{}); err != nil {
			return nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else if err := database.RunMigrations(cfg.Database.DSN, cfg.Database.MigrationsDir, log); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return repository.NewGormProfileRepository(db), db, nil
}
