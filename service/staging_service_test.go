package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxietl/events"
	"taxietl/models"
	"taxietl/repository/testutil"
)

func TestStagingService_Load(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockStaging := new(MockStagingRepository)
	mockZones := new(MockZoneRepository)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(mockStaging, nil, nil, mockZones, mockBus)

	raw := []models.RawTrip{
		rawTrip("2021-09-01 00:10:00", "7", "129", passengers(1)),
		rawTrip("2021-09-03 07:00:00", "74", "75", nil),
	}
	expected := []models.TripEvent{
		{Month: "2021-09", PickUp: "Astoria", DropOff: "Jackson Heights", PassengerCount: 1},
		{Month: "2021-09", PickUp: "East Harlem North", DropOff: "East Harlem South", PassengerCount: 1},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockZones.On("GetAll", ctx).Return(testutil.CreateTestZones(), nil)
	mockStaging.On("Append", ctx, expected).Return(int64(2), nil)
	mockBus.On("Publish", events.StagingLoadedEvent{CurrentMonth: "2021-09", PreviousMonth: "2021-08", Rows: 2}).Return()

	result, err := NewStagingService(mockFactory).Load(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, sep2021, result.CurrentMonth)
	assert.Equal(t, aug2021, result.PreviousMonth)
	assert.Equal(t, int64(2), result.Rows)
	assert.Equal(t, 1, result.Imputed)

	mockUoW.AssertExpectations(t)
	mockStaging.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestStagingService_LoadLookupMissWritesNothing(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockStaging := new(MockStagingRepository)
	mockZones := new(MockZoneRepository)
	mockUoW.SetRepositories(mockStaging, nil, nil, mockZones, new(MockEventPublisher))

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockZones.On("GetAll", ctx).Return(testutil.CreateTestZones(), nil)

	_, err := NewStagingService(mockFactory).Load(ctx, []models.RawTrip{
		rawTrip("2021-09-01 00:10:00", "7", "999", passengers(1)),
	})
	assert.ErrorIs(t, err, ErrZoneNotFound)
	mockStaging.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestStagingService_Clean(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockStaging := new(MockStagingRepository)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(mockStaging, nil, nil, nil, mockBus)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockStaging.On("DeleteByMonth", ctx, sep2021).Return(int64(15), nil)
	mockBus.On("Publish", events.StagingCleanedEvent{Month: "2021-09", Deleted: 15}).Return()

	deleted, err := NewStagingService(mockFactory).Clean(ctx, sep2021)
	require.NoError(t, err)
	assert.Equal(t, int64(15), deleted)
	mockStaging.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}
