package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taxietl/config"
	"taxietl/database"
	"taxietl/ingest"
	"taxietl/repository"
	"taxietl/service"
)

func newZonesCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "zones",
		Short: "Manage the location_lookup table",
	}

	var file string
	load := &cobra.Command{
		Use:   "load",
		Short: "Upsert the TLC taxi zone lookup CSV into location_lookup",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Get()
			if file == "" {
				file = cfg.ZoneFile
			}

			if _, err := ingest.CheckFile(file); err != nil {
				return err
			}
			zones, err := ingest.ReadZones(file)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(c.Context(), cfg.GetDatabaseURL())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			n, err := service.NewZoneService(repository.NewUnitOfWorkFactory(db, nil)).Load(c.Context(), zones)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"file": file, "zones": n}).Info("Zones loaded")
			return nil
		},
	}
	load.Flags().StringVar(&file, "file", "", "taxi_zone_lookup.csv to load (default ZONE_FILE)")

	c.AddCommand(load)
	return c
}
