package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	models "school-analytics-dashboard/app/models/analytics"
)

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) GetDashboardStats(ctx context.Context, token string) (models.DashboardStats, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}

func (m *MockDashboardRepo) GetStudentCountByMajor(ctx context.Context, token string) ([]models.StudentCountByMajor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudentCountByMajor), args.Error(1)
}

func (m *MockDashboardRepo) GetStudentGrowth(ctx context.Context, token string, years int) ([]models.StudentGrowth, error) {
	args := m.Called(ctx, token, years)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudentGrowth), args.Error(1)
}

func (m *MockDashboardRepo) GetBrowserUsage(ctx context.Context, token string) ([]models.BrowserUsage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BrowserUsage), args.Error(1)
}

func (m *MockDashboardRepo) GetActivityLogs(ctx context.Context, token string, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}
