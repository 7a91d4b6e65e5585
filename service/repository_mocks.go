package service

import (
	"context"

	"taxietl/events"
	"taxietl/models"

	"github.com/stretchr/testify/mock"
)

// MockStagingRepository is a mock implementation of StagingRepository
type MockStagingRepository struct {
	mock.Mock
}

func (m *MockStagingRepository) Append(ctx context.Context, trips []models.TripEvent) (int64, error) {
	args := m.Called(ctx, trips)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStagingRepository) GetByMonth(ctx context.Context, month models.Month) ([]models.TripEvent, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripEvent), args.Error(1)
}

func (m *MockStagingRepository) DeleteByMonth(ctx context.Context, month models.Month) (int64, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, records []models.HistoryRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) GetByMonth(ctx context.Context, month models.Month) ([]models.HistoryRecord, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) DeleteByMonth(ctx context.Context, month models.Month) (int64, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) GetByPair(ctx context.Context, pickUp, dropOff string) ([]models.HistoryRecord, error) {
	args := m.Called(ctx, pickUp, dropOff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) LatestMonth(ctx context.Context) (models.Month, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Month), args.Error(1)
}

// MockCurrentMonthRepository is a mock implementation of CurrentMonthRepository
type MockCurrentMonthRepository struct {
	mock.Mock
}

func (m *MockCurrentMonthRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCurrentMonthRepository) Append(ctx context.Context, rows []models.CurrentMonthRecord) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCurrentMonthRepository) GetAll(ctx context.Context) ([]models.CurrentMonthRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CurrentMonthRecord), args.Error(1)
}

func (m *MockCurrentMonthRepository) SetMonth(ctx context.Context, month models.Month) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

func (m *MockCurrentMonthRepository) Month(ctx context.Context) (models.Month, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Month), args.Error(1)
}

// MockZoneRepository is a mock implementation of ZoneRepository
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) GetAll(ctx context.Context) ([]models.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Zone), args.Error(1)
}

func (m *MockZoneRepository) Upsert(ctx context.Context, zones []models.Zone) (int64, error) {
	args := m.Called(ctx, zones)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	stagingRepo      StagingRepository
	historyRepo      HistoryRepository
	currentMonthRepo CurrentMonthRepository
	zoneRepo         ZoneRepository
	eventBus         EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(staging StagingRepository, history HistoryRepository, currentMonth CurrentMonthRepository, zones ZoneRepository, bus EventPublisher) {
	m.stagingRepo = staging
	m.historyRepo = history
	m.currentMonthRepo = currentMonth
	m.zoneRepo = zones
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) StagingRepository() StagingRepository {
	return m.stagingRepo
}

func (m *MockUnitOfWork) HistoryRepository() HistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) CurrentMonthRepository() CurrentMonthRepository {
	return m.currentMonthRepo
}

func (m *MockUnitOfWork) ZoneRepository() ZoneRepository {
	return m.zoneRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
