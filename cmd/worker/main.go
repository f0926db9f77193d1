package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-push-nosql/internal/application/dispatcher"
	"github.com/go-push-nosql/internal/application/evaluator"
	"github.com/go-push-nosql/internal/config"
	"github.com/go-push-nosql/internal/infrastructure/dynamo"
	snsinfra "github.com/go-push-nosql/internal/infrastructure/sns"
	"github.com/go-push-nosql/internal/infrastructure/streams"
	transporthttp "github.com/go-push-nosql/internal/transport/http"
	transportstream "github.com/go-push-nosql/internal/transport/stream"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	policy, err := evaluator.PolicyFromConfig(cfg)
	if err != nil {
		log.Fatalf("invalid rule configuration: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
	streamsClient := dynamo.NewStreamsClient(cfg)

	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	deviceRepo := dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices)

	pushSender, err := snsinfra.NewPushSender(cfg)
	if err != nil {
		log.Fatalf("SNS push sender not available: %v", err)
	}

	evalSvc := evaluator.NewService(notificationRepo, policy)
	dispatchSvc := dispatcher.NewService(userRepo, pushSender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reservationConsumer := streams.NewConsumer(dynamoClient, streamsClient,
		cfg.DynamoTables.Reservations, cfg.StreamPollInterval,
		transportstream.ReservationHandler(evalSvc))
	notificationConsumer := streams.NewConsumer(dynamoClient, streamsClient,
		cfg.DynamoTables.Notifications, cfg.StreamPollInterval,
		transportstream.NotificationHandler(dispatchSvc))

	go func() {
		if err := reservationConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("reservation consumer error: %v", err)
		}
	}()
	go func() {
		if err := notificationConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("notification consumer error: %v", err)
		}
	}()

	deps := &transporthttp.Deps{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		DeviceRepo:       deviceRepo,
	}
	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, membership=%s, falta1=%s)",
			cfg.AppPort, cfg.AppEnv, cfg.MembershipModel, cfg.Falta1Fanout)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Worker stopped")
}
