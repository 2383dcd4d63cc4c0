package service

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/correlation"
	"github.com/yourusername/parlay-engine/internal/models"
)

var errDatabaseDown = errors.New("database down")

// MockOutcomeRepository mocks the outcome repository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) List(ctx context.Context, filter models.OutcomeFilter) ([]models.HistoricalOutcome, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoricalOutcome), args.Error(1)
}

func (m *MockOutcomeRepository) Count(ctx context.Context, filter models.OutcomeFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// MockBankrollRepository mocks the bankroll repository
type MockBankrollRepository struct {
	mock.Mock
}

func (m *MockBankrollRepository) GetByUserID(ctx context.Context, userID string) (*models.BankrollSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollSettings), args.Error(1)
}

// MockCorrelationEstimator mocks the correlation model client
type MockCorrelationEstimator struct {
	mock.Mock
}

func (m *MockCorrelationEstimator) Estimate(ctx context.Context, req correlation.Request) (*correlation.Estimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*correlation.Estimate), args.Error(1)
}

// MockCorrectorSource mocks the calibration corrector source
type MockCorrectorSource struct {
	mock.Mock
}

func (m *MockCorrectorSource) Corrector(ctx context.Context) (*calibration.Corrector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calibration.Corrector), args.Error(1)
}
