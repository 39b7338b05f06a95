package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/city-explorer/internal/api/http"
	"github.com/i474232898/city-explorer/internal/config"
	"github.com/i474232898/city-explorer/internal/explorer"
	"github.com/i474232898/city-explorer/internal/explorer/providers"
	"github.com/i474232898/city-explorer/internal/scheduler"
	"github.com/i474232898/city-explorer/internal/store"
)

const appName = "city-explorer"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := cfg.ConfigureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()
	log.Infof("[Main] Store ready (%s)", db.Driver())

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provs := explorer.Providers{
		Geocoder:   newGeocoder(cfg, httpClient),
		Weather:    providers.NewOpenMeteoProvider(httpClient),
		Businesses: providers.NewYelpProvider(httpClient, cfg.YelpAPIKey),
		Movies:     providers.NewTMDBProvider(httpClient, cfg.MoviesAPIKey),
		Meetups:    providers.NewMeetupProvider(httpClient, cfg.MeetupAPIKey),
		Trails:     providers.NewHikingProjectProvider(httpClient, cfg.TrailAPIKey),
	}

	service := explorer.NewService(db.Stores(), provs,
		explorer.WithLogger(log),
		explorer.WithProviderTimeout(cfg.ProviderTimeout),
	)

	// Scheduler that keeps configured locations warm.
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.ProviderTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())

	httpapi.RegisterOps(app, appName, db)
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Infof("[Main] Listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}

func newGeocoder(cfg *config.AppConfig, client *http.Client) explorer.Geocoder {
	if cfg.Geocoder == "kelvins" {
		return providers.NewKelvinsGeocoder(cfg.GoogleAPIKey)
	}
	return providers.NewGoogleGeocoder(client, cfg.GoogleAPIKey)
}
