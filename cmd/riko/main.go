package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/napatsn/riko/internal/app"
	"github.com/napatsn/riko/internal/config"
	"github.com/napatsn/riko/internal/policy"
)

func main() {
	// Local development keeps secrets in .env; deployed environments inject
	// real environment variables and have no such file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	result, err := app.Build(ctx, cfg)
	if err != nil {
		masked, _ := policy.MaskSecrets(err.Error())
		log.Fatalf("build failed: %s", masked)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			log.Printf("cleanup failed: %v", err)
		}
	}()

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	if cfg.TelegramMode == "poll" {
		go func() {
			if err := result.Bot.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Fatalf("polling loop failed: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: result.API.Router(),
	}

	go func() {
		log.Printf("server listening on %s (telegram mode: %s)", cfg.BindAddr, cfg.TelegramMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
