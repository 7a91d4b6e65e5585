package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"

	"taxietl/config"
	"taxietl/database"
	"taxietl/models"
	"taxietl/repository"
	"taxietl/service"
)

func newCurrentCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current-month popular destinations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withReports(c.Context(), func(reports service.ReportService) error {
				month, rows, err := reports.CurrentMonth(c.Context())
				if err != nil {
					return err
				}
				writeCurrentMonth(stdout, month, rows)
				return nil
			})
		},
	}
}

func newHistoryCommand(stdout io.Writer) *cobra.Command {
	var pickUp, dropOff string
	c := &cobra.Command{
		Use:   "history",
		Short: "Print the recorded rank changes of one zone pair",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withReports(c.Context(), func(reports service.ReportService) error {
				records, err := reports.PairHistory(c.Context(), pickUp, dropOff)
				if err != nil {
					return err
				}
				writePairHistory(stdout, records)
				return nil
			})
		},
	}
	c.Flags().StringVar(&pickUp, "pickup", "", "pickup zone name")
	c.Flags().StringVar(&dropOff, "dropoff", "", "drop-off zone name")
	_ = c.MarkFlagRequired("pickup")
	_ = c.MarkFlagRequired("dropoff")
	return c
}

func withReports(ctx context.Context, fn func(service.ReportService) error) error {
	db, err := database.NewConnection(ctx, config.Get().GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	return fn(service.NewReportService(repository.NewUnitOfWorkFactory(db, nil)))
}

func writeCurrentMonth(w io.Writer, month models.Month, rows []models.CurrentMonthRecord) {
	if month.IsZero() {
		fmt.Fprintln(w, "No month projected yet.")
		return
	}
	fmt.Fprintf(w, "Popular destinations, %s\n", month)

	t := newTable(w)
	t.AppendHeader(table.Row{"rank", "pick_up", "drop_off"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Rank, r.PickUp, r.DropOff})
	}
	t.Render()
}

func writePairHistory(w io.Writer, records []models.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No rank changes recorded for this pair.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"month", "rank"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Month, r.Rank})
	}
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	// Keep column names as stored.
	t.Style().Format.Header = text.FormatDefault
	return t
}
