package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "groove/docs"
	"groove/internal/config"
	"groove/internal/logger"
	"groove/internal/server"
)

// @title           Groove API
// @version         1.0
// @description     Collaborative kanban boards with drag-and-drop ordering.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	// interrupting startup stops a running migration between steps
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	s, err := server.Init(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal("❌ Server initialization failed", "err", err)
	}

	s.Run()
}
