package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cloud-Net-Park/Gravel/config"
	"github.com/Cloud-Net-Park/Gravel/store"
	"github.com/Cloud-Net-Park/Gravel/storefront"
)

// A headless storefront client: syncs with the backend and reports the
// catalogue until interrupted.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := storefront.Open(cfg, logger)
	if err := s.Start(ctx); err != nil {
		logger.Error("could not start storefront", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if user := s.CurrentUser(); user != nil {
		logger.Info("restored session", "user", user.Email)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = store.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		logger.Info("catalogue", "products", len(s.Products()), "users", len(s.Users()), "reachable", s.BackendReachable())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
