package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/api"
	"github.com/Kenia972/myyowntour-sub000/internal/audit"
	"github.com/Kenia972/myyowntour-sub000/internal/config"
	"github.com/Kenia972/myyowntour-sub000/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	server := api.NewServer(cfg)

	// "audit" runs the overbooking scan once and exits
	if len(os.Args) > 1 && os.Args[1] == "audit" {
		runAudit(server)
		return
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.GetRouter(),
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := server.Cleanup(); err != nil {
		log.Printf("Error during cleanup: %v", err)
	}

	log.Println("Server stopped")
}

func runAudit(server *api.Server) {
	defer server.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	violations, err := audit.NewAuditor(server.Repos().Slots).Run(ctx)
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	if len(violations) == 0 {
		log.Println("Audit clean: no oversold slots")
		return
	}

	for _, v := range violations {
		log.Printf("OVERSOLD: %s", v)
	}
	os.Exit(1)
}
