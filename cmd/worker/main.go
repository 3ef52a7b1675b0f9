package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/krishkalaria12/Bingo/internal/config"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/internal/messaging"
	"github.com/krishkalaria12/Bingo/internal/platform"
)

func main() {
	log.Println("Starting Worker Process...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to create RabbitMQ receiver: %v", err)
	}
	defer receiver.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := messaging.Scheduler{
		DB:           db,
		Publisher:    publisher,
		PollInterval: cfg.SchedulerInterval,
	}
	go scheduler.Run(ctx)

	var wg sync.WaitGroup

	worker := messaging.Worker{
		DB:          db,
		Receiver:    receiver,
		Deliverer:   platform.NewClient(cfg.PublishGatewayURL),
		WaitGroup:   &wg,
		Concurrency: cfg.WorkerConcurrency,
	}
	worker.Start()

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, waiting for workers to finish...")

	cancel()
	receiver.Close()
	wg.Wait()

	log.Println("Worker process stopped.")
}
