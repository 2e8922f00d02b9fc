package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/config"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
	"github.com/Kenia972/myyowntour-sub000/internal/worker"
)

func main() {
	log.Println("Starting worker service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Separate NATS client ID from the API process
	cfg.NATS.ClientID = "myowntour-worker"

	workerService, err := worker.NewWorkerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create worker service: %v", err)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := workerService.Start(runCtx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker service...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := workerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Worker service stopped")
}
