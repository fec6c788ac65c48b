// File: slotbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotbook/config"
	"slotbook/cron"
	"slotbook/database"
	availabilityRepoPkg "slotbook/database/repository/availability"
	memberRepoPkg "slotbook/database/repository/member"
	reservationRepoPkg "slotbook/database/repository/reservation"
	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/routes"
	"slotbook/services/availability"
	"slotbook/services/booking"
	"slotbook/services/calendar"
	"slotbook/services/notification"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	memberRepo := memberRepoPkg.NewMongoMemberRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()

	// External busy-calendar source. Without Google credentials the engine
	// runs on rules and overrides alone.
	var busySource calendar.BusySource = calendar.NoopBusySource{}
	if config.AppConfig.GoogleClientID != "" {
		busySource = calendar.NewGoogleBusySource(
			config.AppConfig.GoogleClientID,
			config.AppConfig.GoogleClientSecret,
			calendar.FileTokenProvider(config.AppConfig.GoogleTokensFile),
		)
	}

	// Confirmation delivery rides the asynq queue; the worker drains it.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	var sender notification.Sender = notification.NoopSender{}
	if config.AppConfig.ResendAPIKey != "" {
		sender = notification.NewResendSender(config.AppConfig.ResendAPIKey, config.AppConfig.MailFrom)
	}
	cron.InitConfirmationWorker(sender)

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:  availabilityRepo,
		Cache: utils.GetCacheClient(),
	}

	ledger := booking.NewDefaultReservationLedger(reservationRepo)

	resolver := &booking.DefaultSlotResolver{
		Members:      memberRepo,
		Availability: availabilityService,
		BusySource:   busySource,
		Ledger:       ledger,
	}

	reservationService := &booking.DefaultReservationService{
		Resolver: resolver,
		Ledger:   ledger,
		Members:  memberRepo,
		Notifier: &notification.AsynqDispatcher{Client: asynqClient},
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Team:         handlers.NewTeamHandler(memberRepo, logger),
		Availability: handlers.NewAvailabilityHandler(availabilityService, logger),
		Booking:      handlers.NewBookingHandler(reservationService, memberRepo, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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
