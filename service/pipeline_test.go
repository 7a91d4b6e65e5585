package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxietl/events"
	"taxietl/ingest"
	"taxietl/models"
)

type pipelineMocks struct {
	staging   *MockStagingService
	history   *MockHistoryReconciler
	projector *MockCurrentMonthProjector
}

func newTestPipeline(bus *events.Bus) (*Pipeline, *pipelineMocks) {
	m := &pipelineMocks{
		staging:   new(MockStagingService),
		history:   new(MockHistoryReconciler),
		projector: new(MockCurrentMonthProjector),
	}
	p := NewPipeline(m.staging, m.history, m.projector, bus)
	p.checkFile = func(path string) (ingest.FileInfo, error) {
		return ingest.FileInfo{Path: path, Size: 42, Digest: "abc"}, nil
	}
	p.readTrips = func(string) ([]models.RawTrip, error) {
		return []models.RawTrip{rawTrip("2021-09-01 00:10:00", "7", "129", passengers(1))}, nil
	}
	return p, m
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	bus := events.NewBus()
	var mu sync.Mutex
	var seen []string
	bus.Subscribe(events.EventTypeFileChecked, func(_ context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.(events.FileCheckedEvent).Digest)
	})

	p, m := newTestPipeline(bus)
	staged := &StagingResult{CurrentMonth: sep2021, PreviousMonth: aug2021, Rows: 1}
	reconciled := &ReconcileResult{
		CurrentMonth:  sep2021,
		PreviousMonth: aug2021,
		Changes:       []models.HistoryRecord{{Month: "2021-09", PickUp: "Astoria", DropOff: "Jackson Heights", Rank: 1}},
	}

	m.staging.On("Load", ctx, mock.Anything).Return(staged, nil)
	m.history.On("Reconcile", ctx, sep2021, aug2021).Return(reconciled, nil)
	m.projector.On("Project", mock.Anything, sep2021).Return(1, nil)
	m.staging.On("Clean", mock.Anything, sep2021).Return(int64(1), nil)

	result, err := p.Run(ctx, "/data/green_tripdata.csv")
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, "/data/green_tripdata.csv", result.File.Path)
	assert.Same(t, staged, result.Staging)
	assert.Same(t, reconciled, result.History)
	assert.Equal(t, 1, result.Projected)
	assert.Equal(t, int64(1), result.Cleaned)
	assert.Equal(t, []string{"abc"}, seen)

	m.staging.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.projector.AssertExpectations(t)
}

func TestPipeline_MissingFileHaltsBeforeStaging(t *testing.T) {
	p, m := newTestPipeline(nil)
	p.checkFile = ingest.CheckFile

	_, err := p.Run(context.Background(), t.TempDir()+"/absent.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrInputMissing)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageCheckFile, stageErr.Stage)
	m.staging.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestPipeline_LookupErrorHaltsRun(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPipeline(nil)

	m.staging.On("Load", ctx, mock.Anything).Return(nil, ErrZoneNotFound)

	_, err := p.Run(ctx, "trips.csv")
	assert.ErrorIs(t, err, ErrZoneNotFound)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageLoadStaging, stageErr.Stage)
	m.history.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_ReconcileFailureSkipsFinalStages(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPipeline(nil)
	storeErr := errors.New("connection reset")

	m.staging.On("Load", ctx, mock.Anything).Return(&StagingResult{CurrentMonth: sep2021, PreviousMonth: aug2021}, nil)
	m.history.On("Reconcile", ctx, sep2021, aug2021).Return(nil, storeErr)

	_, err := p.Run(ctx, "trips.csv")
	assert.ErrorIs(t, err, storeErr)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageReconcileHistory, stageErr.Stage)
	m.projector.AssertNotCalled(t, "Project", mock.Anything, mock.Anything)
	m.staging.AssertNotCalled(t, "Clean", mock.Anything, mock.Anything)
}

func TestPipeline_ProjectorFailureFailsRun(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPipeline(nil)
	storeErr := errors.New("disk full")

	m.staging.On("Load", ctx, mock.Anything).Return(&StagingResult{CurrentMonth: sep2021, PreviousMonth: aug2021}, nil)
	m.history.On("Reconcile", ctx, sep2021, aug2021).Return(&ReconcileResult{CurrentMonth: sep2021}, nil)
	m.projector.On("Project", mock.Anything, sep2021).Return(0, storeErr)
	m.staging.On("Clean", mock.Anything, sep2021).Return(int64(0), nil).Maybe()

	_, err := p.Run(ctx, "trips.csv")
	assert.ErrorIs(t, err, storeErr)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageProjectCurrent, stageErr.Stage)
}

func TestPipeline_Resume(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPipeline(nil)

	m.history.On("Reconcile", ctx, sep2021, aug2021).Return(&ReconcileResult{CurrentMonth: sep2021}, nil)
	m.projector.On("Project", mock.Anything, sep2021).Return(3, nil)
	m.staging.On("Clean", mock.Anything, sep2021).Return(int64(9), nil)

	result, err := p.Resume(ctx, sep2021)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Projected)
	assert.Equal(t, int64(9), result.Cleaned)
	m.staging.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}
