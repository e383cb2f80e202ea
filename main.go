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

	"github.com/avilam/mensajeria-be/internal/api"
	"github.com/avilam/mensajeria-be/internal/auth"
	"github.com/avilam/mensajeria-be/internal/config"
	"github.com/avilam/mensajeria-be/internal/database"
	"github.com/avilam/mensajeria-be/internal/logger"
	"github.com/avilam/mensajeria-be/internal/monitoring"
	"github.com/avilam/mensajeria-be/internal/services"
	"github.com/avilam/mensajeria-be/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Ensure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Set up database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	gateway := database.NewGateway(db, cfg.QueryTimeout)

	// Set up token manager and services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenValidity)
	uploads := storage.NewUploadStore(cfg.UploadDir)
	userService := services.NewUserService(gateway, tokens)
	messageService := services.NewMessageService(gateway)

	// Set up and run the background pool monitor
	monitor, err := monitoring.NewPoolMonitor(db, cfg.StatsSchedule)
	if err != nil {
		log.Fatalf("Failed to initialize pool monitor: %v", err)
	}
	go monitor.Run()

	// Set up router
	router := api.NewRouter(cfg, tokens, uploads, userService, messageService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
