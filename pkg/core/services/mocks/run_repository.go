package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// MockRunRepository is a testify mock of ports.RunRepository.
type MockRunRepository struct {
	mock.Mock
}

// NewMockRunRepository creates a mock and registers expectation checks on cleanup.
func NewMockRunRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRunRepository {
	m := &MockRunRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run domain.AnalysisRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) RunByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*domain.AnalysisRun)
	return run, args.Error(1)
}

func (m *MockRunRepository) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]domain.AnalysisRun)
	return runs, args.Error(1)
}
