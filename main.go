package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/auth"
	"github.com/krishkalaria12/spot-serve/config"
	"github.com/krishkalaria12/spot-serve/database"
	handler "github.com/krishkalaria12/spot-serve/handlers"
	"github.com/krishkalaria12/spot-serve/logging"
	"github.com/krishkalaria12/spot-serve/middleware"
	"github.com/krishkalaria12/spot-serve/repositories"
	"github.com/krishkalaria12/spot-serve/router"
	"github.com/krishkalaria12/spot-serve/services"
	"github.com/krishkalaria12/spot-serve/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := Run(context.Background(), cfg, db, signals); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
	}
	if err := database.Close(db); err != nil {
		logging.Error().Err(err).Msg("closing the database connection")
	}
}

// NewApp wires repositories, services and handlers into a Fiber app.
// uploader may be nil, which disables image file uploads.
func NewApp(cfg config.Settings, db *gorm.DB, uploader services.Uploader) (*fiber.App, func()) {
	users := repositories.NewUserRepository(db)
	spots := repositories.NewSpotRepository(db)
	reviews := repositories.NewReviewRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenDuration)
	userCache := auth.NewUserCache(users, cfg.UserCacheTTL)
	sessions := services.NewSessionService(users, userCache, tokens)
	cookies := middleware.CookieConfig{Secure: cfg.SecureCookies, MaxAge: tokens.Duration()}

	app := fiber.New(fiber.Config{
		AppName:      "spot-serve",
		ErrorHandler: apperr.Handler,
		BodyLimit:    10 * 1024 * 1024,
	})
	router.SetupRoutes(app, router.Handlers{
		Session: handler.NewSessionHandler(sessions, cookies),
		Spot:    handler.NewSpotHandler(services.NewSpotService(spots, users, uploader)),
		Review:  handler.NewReviewHandler(services.NewReviewService(reviews, spots, users)),
	}, middleware.RestoreUser(sessions, cookies))

	return app, userCache.Stop
}

// Run starts the HTTP server and waits for a termination signal.
func Run(ctx context.Context, cfg config.Settings, db *gorm.DB, signals <-chan os.Signal) error {
	var uploader services.Uploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSUploadPath)
		if err != nil {
			return err
		}
		defer gcs.Close()
		uploader = gcs
	} else {
		logging.Warn().Msg("GCS_BUCKET_NAME not set, image file uploads disabled")
	}

	app, cleanup := NewApp(cfg, db, uploader)
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("port", cfg.Port).Msg("server is listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
