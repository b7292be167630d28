package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hybrid-image-service/internal/api"
	"hybrid-image-service/internal/auth"
	"hybrid-image-service/internal/config"
	"hybrid-image-service/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}
	logger := cfg.NewLogger()

	merger := service.NewHybridService(
		service.WithMaxPixels(cfg.MaxPixels),
		service.WithLogger(logger),
	)
	handlers := api.NewHandlers(cfg, merger, auth.New(cfg), logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting server on %s\n", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
}
