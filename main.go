package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Cloud-Net-Park/Gravel/config"
	"github.com/Cloud-Net-Park/Gravel/initializers"
	"github.com/Cloud-Net-Park/Gravel/realtime"
	"github.com/Cloud-Net-Park/Gravel/routes"
	"github.com/Cloud-Net-Park/Gravel/utils"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := initializers.ConnectToDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := initializers.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if cfg.SeedProducts {
		if err := initializers.SeedProducts(db); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	r := routes.SetupRouter(db, hub, jwt, cfg)

	// Start the server
	log.Printf("Server starting on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
