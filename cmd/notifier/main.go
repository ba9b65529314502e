package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"social-go/internal/config"
	appKafka "social-go/internal/kafka"
	kafkahandlers "social-go/internal/kafka/handlers"
	"social-go/internal/storage"
)

// notifier consumes notification events published by the relationship core
// and persists them as Notification rows.
func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("%s notifier starting (version %s).", cfg.AppName, cfg.AppVersion)

	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Fatalf("Failed to migrate database tables: %v", err)
	}

	notificationRepo := storage.NewGormNotificationRepository(db)
	handlerLogic := kafkahandlers.NewNotificationConsumerLogic(notificationRepo)

	consumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Consume(
			ctx,
			[]string{cfg.Kafka.NotificationsTopic},
			cfg.Kafka.ConsumerGroup,
			handlerLogic.HandleNotificationEvent,
		)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down.", sig)
		cancel()
		<-consumerDone
	case err := <-consumerDone:
		if err != nil {
			log.Fatalf("Kafka consumer stopped with error: %v", err)
		}
	}
	log.Println("Notifier stopped.")
}
