package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"contentflow/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Consume queued optimization jobs, reap abandoned uploads, sweep scratch files.
func main() {
	if err := run(); err != nil {
		log.Fatalf("contentflow worker stopped with error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()
	return app.Run(ctx)
}
