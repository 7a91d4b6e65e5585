package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"taxietl/config"
)

// setupLogging applies LOG_LEVEL and picks JSON output in production.
func setupLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
