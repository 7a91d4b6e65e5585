package cmd

import (
	"github.com/spf13/cobra"

	"taxietl/config"
	"taxietl/database"
)

func newMigrateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	c.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return database.MigrateUp(config.Get().GetDatabaseURL())
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			steps := "1"
			if len(args) > 0 {
				steps = args[0]
			}
			return database.MigrateDown(config.Get().GetDatabaseURL(), steps)
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return database.MigrateStatus(config.Get().GetDatabaseURL())
		},
	})
	return c
}
