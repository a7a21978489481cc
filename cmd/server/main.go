package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/variant-context-server/internal/setup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := setup.NewApp(ctx)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Close()

	app.Log.WithField("assembly", app.Config.Assembly).Info("Starting variant context server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Log.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := app.Server.Start(ctx); err != nil {
		app.Log.WithError(err).Fatal("Server failed")
	}

	app.Log.Info("Server stopped")
}
