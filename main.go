package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"taxietl/cmd"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling run...")
		cancel()
	}()

	if err := cmd.NewRootCommand(ctx, os.Stdout).Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		cancel()
		os.Exit(1)
	}
}
