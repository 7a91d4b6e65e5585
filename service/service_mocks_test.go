package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxietl/models"
)

type MockStagingService struct {
	mock.Mock
}

func (m *MockStagingService) Load(ctx context.Context, raw []models.RawTrip) (*StagingResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StagingResult), args.Error(1)
}

func (m *MockStagingService) Clean(ctx context.Context, month models.Month) (int64, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistoryReconciler struct {
	mock.Mock
}

func (m *MockHistoryReconciler) Reconcile(ctx context.Context, current, previous models.Month) (*ReconcileResult, error) {
	args := m.Called(ctx, current, previous)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReconcileResult), args.Error(1)
}

type MockCurrentMonthProjector struct {
	mock.Mock
}

func (m *MockCurrentMonthProjector) Project(ctx context.Context, month models.Month) (int, error) {
	args := m.Called(ctx, month)
	return args.Int(0), args.Error(1)
}
