package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"taxietl/events"
	"taxietl/ingest"
	"taxietl/models"
)

// Stage names, in execution order.
const (
	StageCheckFile        = "check_file"
	StageLoadStaging      = "load_staging"
	StageReconcileHistory = "reconcile_history"
	StageProjectCurrent   = "project_current_month"
	StageCleanStaging     = "clean_staging"
)

// StageError records which stage halted a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RunResult carries every stage's output of one run.
type RunResult struct {
	File      ingest.FileInfo
	Staging   *StagingResult
	History   *ReconcileResult
	Projected int
	Cleaned   int64
}

// Pipeline runs the monthly stages in dependency order:
// check file, load staging, reconcile history, then project the current
// month and clean staging concurrently.
type Pipeline struct {
	staging   StagingService
	history   HistoryReconciler
	projector CurrentMonthProjector
	bus       *events.Bus

	checkFile func(path string) (ingest.FileInfo, error)
	readTrips func(path string) ([]models.RawTrip, error)
}

// NewPipeline creates a pipeline over the given stages. bus may be nil.
func NewPipeline(staging StagingService, history HistoryReconciler, projector CurrentMonthProjector, bus *events.Bus) *Pipeline {
	return &Pipeline{
		staging:   staging,
		history:   history,
		projector: projector,
		bus:       bus,
		checkFile: ingest.CheckFile,
		readTrips: ingest.ReadTrips,
	}
}

// Run processes the trip file at path end to end. The first failing stage
// stops the run and is reported as a *StageError.
func (p *Pipeline) Run(ctx context.Context, path string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	info, err := p.checkFile(path)
	if err != nil {
		return result, &StageError{Stage: StageCheckFile, Err: err}
	}
	result.File = info
	log.WithFields(log.Fields{
		"path":   info.Path,
		"size":   info.Size,
		"digest": info.Digest,
	}).Info("Input file found")
	if p.bus != nil {
		p.bus.Emit(ctx, events.FileCheckedEvent{Path: info.Path, Size: info.Size, Digest: info.Digest})
	}

	raw, err := p.readTrips(path)
	if err != nil {
		return result, &StageError{Stage: StageLoadStaging, Err: err}
	}
	staged, err := p.staging.Load(ctx, raw)
	if err != nil {
		return result, &StageError{Stage: StageLoadStaging, Err: err}
	}
	result.Staging = staged

	if err := p.reconcileAndFinish(ctx, staged.CurrentMonth, staged.PreviousMonth, result); err != nil {
		return result, err
	}

	log.WithFields(log.Fields{
		"month":    staged.CurrentMonth.String(),
		"changes":  len(result.History.Changes),
		"duration": time.Since(start).String(),
	}).Info("Pipeline run completed")
	return result, nil
}

// Resume runs the stages after staging for a month whose trips are already
// staged, e.g. after a run died between reconciliation and cleanup.
func (p *Pipeline) Resume(ctx context.Context, month models.Month) (*RunResult, error) {
	result := &RunResult{}
	if err := p.reconcileAndFinish(ctx, month, month.Previous(), result); err != nil {
		return result, err
	}
	return result, nil
}

func (p *Pipeline) reconcileAndFinish(ctx context.Context, current, previous models.Month, result *RunResult) error {
	reconciled, err := p.history.Reconcile(ctx, current, previous)
	if err != nil {
		return &StageError{Stage: StageReconcileHistory, Err: err}
	}
	result.History = reconciled

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := p.projector.Project(gctx, current)
		if err != nil {
			return &StageError{Stage: StageProjectCurrent, Err: err}
		}
		result.Projected = n
		return nil
	})
	g.Go(func() error {
		n, err := p.staging.Clean(gctx, current)
		if err != nil {
			return &StageError{Stage: StageCleanStaging, Err: err}
		}
		result.Cleaned = n
		return nil
	})
	return g.Wait()
}
