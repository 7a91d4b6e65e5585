package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"taxietl/config"
)

// NewRootCommand builds the taxietl command tree. Output of the report
// commands goes to stdout.
func NewRootCommand(ctx context.Context, stdout io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "taxietl",
		Short: "Monthly popular-destination ranking for green taxi trips",
		Long: `taxietl stages a month of green taxi trips, ranks pickup/drop-off zone
pairs by trip volume, records the pairs whose rank moved since the previous
month and refreshes the current-month view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return setupLogging(config.Get())
		},
	}
	rc.SetContext(ctx)

	rc.AddCommand(newRunCommand())
	rc.AddCommand(newMigrateCommand())
	rc.AddCommand(newZonesCommand())
	rc.AddCommand(newCurrentCommand(stdout))
	rc.AddCommand(newHistoryCommand(stdout))
	return rc
}
