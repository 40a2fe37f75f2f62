// File: islandeats/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"islandeats/channel/line"
	"islandeats/config"
	"islandeats/cron"
	"islandeats/database"
	providerRepo "islandeats/database/repository/provider"
	"islandeats/handlers"
	"islandeats/middleware"
	"islandeats/routes"
	"islandeats/services/booking"
	"islandeats/services/directory"
	"islandeats/services/flow"
	"islandeats/services/inquiry"
	"islandeats/services/reminder"
	"islandeats/services/scheduler"
	"islandeats/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.AppConfig.LineChannelSecret == "" || config.AppConfig.LineChannelToken == "" {
		logger.Sugar().Fatal("main: LINE channel credentials are not configured")
	}

	database.InitDB()
	utils.InitCache()

	channel, err := line.NewClient(config.AppConfig.LineChannelSecret, config.AppConfig.LineChannelToken, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize LINE client: %v", err)
	}

	// Provider directory: Mongo source of truth, Redis snapshot, in-memory reads.
	dir := directory.NewCachedDirectory(providerRepo.NewMongoProviderRepo(), utils.GetCacheClient(), logger)
	if err := dir.Refresh(context.Background()); err != nil {
		logger.Sugar().Fatalf("main: failed to load provider directory: %v", err)
	}

	// The engine.
	registry := inquiry.NewDefaultRegistry()
	timers := scheduler.NewTimerScheduler()

	matchingService := &inquiry.DefaultMatchingService{
		Registry:  registry,
		Directory: dir,
		Messenger: channel,
		Logger:    logger,
	}
	timeoutMonitor := &inquiry.TimeoutMonitor{
		Registry:  registry,
		Scheduler: timers,
		Messenger: channel,
		Logger:    logger,
	}
	reminderScheduler := reminder.NewScheduler(
		registry, dir, timers, channel,
		time.Duration(config.AppConfig.ReminderLeadMin)*time.Minute,
		logger,
	)
	bookingService := booking.NewDefaultBookingService(registry, dir, channel, reminderScheduler, logger)
	flowService := flow.NewService(
		registry, matchingService, timeoutMonitor,
		time.Duration(config.AppConfig.InquiryTTLMin)*time.Minute,
		logger,
	)

	webhookHandler := &handlers.WebhookHandler{
		Channel:   channel,
		Flow:      flowService,
		Matching:  matchingService,
		Booking:   bookingService,
		Registry:  registry,
		Directory: dir,
		Logger:    logger,
	}
	adminHandler := handlers.NewAdminHandler(registry, dir)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, &routes.Handlers{
		Webhook: webhookHandler,
		Admin:   adminHandler,
	})

	housekeeping := cron.StartHousekeeping(registry, logger)
	defer housekeeping.Stop()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
