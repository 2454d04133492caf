package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"contentflow/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (stores, object storage, fan-out, optimizer dispatch).
// 3) Serve HTTP and gRPC health until SIGINT/SIGTERM.
func main() {
	if err := run(); err != nil {
		log.Fatalf("contentflow api stopped with error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()
	return app.Run(ctx)
}
