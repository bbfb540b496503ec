// File: mindhaven/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"mindhaven/config"
	"mindhaven/cron"
	"mindhaven/handlers"
	"mindhaven/middleware"
	"mindhaven/routes"
	"mindhaven/services/booking"
	"mindhaven/services/catalog"
	"mindhaven/services/notification"
	"mindhaven/services/upstream"
	"mindhaven/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitCaches()
	handlers.RegisterValidators()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// External collaborators.
	upstreamClient := upstream.NewHTTPClient(
		config.AppConfig.UpstreamBaseURL,
		config.AppConfig.UpstreamAPIKey,
		time.Duration(config.AppConfig.UpstreamTimeoutSec)*time.Second,
		logger,
	)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	// Services.
	packageCatalog := catalog.NewStaticCatalog()

	resolver := &booking.AvailabilityResolver{
		Upstream:    upstreamClient,
		Cache:       utils.GetTemplateCacheClient(),
		Logger:      logger,
		TemplateTTL: time.Duration(config.AppConfig.TemplateCacheTTLSec) * time.Second,
	}

	draftStore := &booking.RedisDraftStore{
		Client: utils.GetDraftCacheClient(),
		TTL:    time.Duration(config.AppConfig.DraftTTLMin) * time.Minute,
	}

	flowService := &booking.DefaultFlowService{
		Drafts:       draftStore,
		Resolver:     resolver,
		Upstream:     upstreamClient,
		Catalog:      packageCatalog,
		Reminders:    &notification.AsynqScheduler{Client: asynqClient},
		Logger:       logger,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
	}

	bookingHandler := handlers.NewBookingHandler(flowService, packageCatalog, logger)
	catalogHandler := handlers.NewCatalogHandler(packageCatalog)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler, catalogHandler)

	// Reminder delivery worker.
	cron.InitReminderWorker(&notification.LogNotifier{Logger: logger})

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
