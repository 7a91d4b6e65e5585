package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taxietl/config"
	"taxietl/database"
	"taxietl/events"
	"taxietl/models"
	"taxietl/repository"
	"taxietl/service"
)

type runOptions struct {
	file    string
	month   string
	migrate bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	c := &cobra.Command{
		Use:   "run",
		Short: "Run the monthly pipeline on a trip file",
		Long: `Checks the trip file, loads it into staging, reconciles the rank history,
then refreshes the current-month view and cleans staging.

With --month the file stages are skipped and the run resumes from history
reconciliation for trips already staged under that month.`,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c.Context(), opts)
		},
	}

	flags := c.Flags()
	flags.StringVar(&opts.file, "file", "", "trip CSV to process (default TRIP_FILE)")
	flags.StringVar(&opts.month, "month", "", "resume an already staged month, e.g. 2021-09")
	flags.BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before running")
	return c
}

// run wires the services and executes one pipeline run.
func run(ctx context.Context, opts *runOptions) error {
	cfg := config.Get()

	rankMode, err := service.ParseRankMode(cfg.RankMode)
	if err != nil {
		return err
	}

	if opts.migrate {
		log.Info("Applying migrations...")
		if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
			return err
		}
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	subscribeStageLogging(eventBus)
	defer eventBus.Wait()

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	stagingService := service.NewStagingService(uowFactory)
	pipeline := service.NewPipeline(
		stagingService,
		service.NewHistoryReconciler(uowFactory, rankMode),
		service.NewCurrentMonthProjector(uowFactory),
		eventBus,
	)

	start := time.Now()
	var result *service.RunResult
	if opts.month != "" {
		month, err := models.ParseMonth(opts.month)
		if err != nil {
			return err
		}
		log.WithField("month", month.String()).Info("Resuming pipeline from history reconciliation")
		result, err = pipeline.Resume(ctx, month)
		if err != nil {
			return err
		}
	} else {
		path := opts.file
		if path == "" {
			path = cfg.TripFile
		}
		log.WithFields(log.Fields{
			"file":     path,
			"rankMode": rankMode.String(),
		}).Info("Starting pipeline run")
		result, err = pipeline.Run(ctx, path)
		if err != nil {
			return err
		}
	}

	fields := log.Fields{
		"projected": result.Projected,
		"cleaned":   result.Cleaned,
		"duration":  time.Since(start).String(),
	}
	if result.History != nil {
		fields["month"] = result.History.CurrentMonth.String()
		fields["rankedPairs"] = len(result.History.Ranks)
		fields["changedPairs"] = len(result.History.Changes)
	}
	log.WithFields(fields).Info("Run finished")
	return nil
}

func subscribeStageLogging(bus *events.Bus) {
	for _, t := range []events.EventType{
		events.EventTypeFileChecked,
		events.EventTypeStagingLoaded,
		events.EventTypeHistoryReconciled,
		events.EventTypeCurrentMonthProjected,
		events.EventTypeStagingCleaned,
	} {
		bus.Subscribe(t, func(_ context.Context, e events.Event) {
			log.WithFields(log.Fields{
				"event":   e.Type(),
				"payload": fmt.Sprintf("%+v", e),
			}).Debug("Stage completed")
		})
	}
}
